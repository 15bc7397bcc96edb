package ligainsider

import "fmt"

const defaultTeamPath = "bayer-04-leverkusen"

// Team page slugs and their ligainsider ids.
var teamPageIDs = map[string]string{
	"fc-bayern-muenchen":        "1",
	"sv-werder-bremen":          "2",
	"eintracht-frankfurt":       "3",
	"bayer-04-leverkusen":       "4",
	"borussia-moenchengladbach": "5",
	"vfb-stuttgart":             "9",
	"borussia-dortmund":         "10",
	"vfl-bochum":                "11",
	"tsg-hoffenheim":            "14",
	"vfl-wolfsburg":             "16",
	"1-fsv-mainz-05":            "17",
	"sc-freiburg":               "18",
	"fc-st-pauli":               "20",
	"fc-augsburg":               "21",
	"1-fc-union-berlin":         "40",
	"rb-leipzig":                "43",
	"ksv-holstein":              "51",
	"1-fc-heidenheim":           "1259",
}

// Kickbase team ids to ligainsider team page slugs. Several clubs appear under
// more than one Kickbase id.
var kickbaseTeams = map[string]string{
	"1":    "fc-bayern-muenchen",
	"2":    "fc-bayern-muenchen",
	"3":    "borussia-dortmund",
	"4":    "bayer-04-leverkusen",
	"5":    "borussia-moenchengladbach",
	"7":    "bayer-04-leverkusen",
	"9":    "vfb-stuttgart",
	"10":   "sv-werder-bremen",
	"11":   "vfl-bochum",
	"12":   "vfb-stuttgart",
	"14":   "tsg-hoffenheim",
	"16":   "vfl-wolfsburg",
	"17":   "1-fsv-mainz-05",
	"18":   "1-fc-heidenheim",
	"20":   "fc-st-pauli",
	"21":   "fc-augsburg",
	"24":   "vfl-bochum",
	"40":   "1-fc-union-berlin",
	"43":   "rb-leipzig",
	"50":   "ksv-holstein",
	"51":   "ksv-holstein",
	"1246": "1-fc-union-berlin",
	"1259": "1-fc-heidenheim",
	"1295": "ksv-holstein",
	"1311": "rb-leipzig",
}

// TeamPath returns the team page path for a Kickbase team id. Unknown ids fall
// back to the default slug with the raw id.
func TeamPath(teamID string) string {
	slug, ok := kickbaseTeams[teamID]
	if !ok {
		return fmt.Sprintf("/%s/%s/", defaultTeamPath, teamID)
	}
	return fmt.Sprintf("/%s/%s/", slug, teamPageIDs[slug])
}
