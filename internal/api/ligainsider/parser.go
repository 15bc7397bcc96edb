package ligainsider

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/kickbot/internal/availability"
	"github.com/omarshaarawi/kickbot/internal/models"
	"golang.org/x/net/html"
)

var ErrPlayerNotFound = fmt.Errorf("player not on team page: %w", availability.ErrNoSignal)

const (
	reasonInjuredOrSuspended = "Verletzung oder Sperre"
	nameSimilarityThreshold  = 0.8
)

var (
	sectionInjuryMarkers = []string{"Verletzt", "Angeschlagen", "Gesperrt", "fehlen"}
	lineupInjuryMarkers  = []string{"Verletzt", "Angeschlagen", "Gesperrt", "Trainingsrückstand"}
	lineupReasonPattern  = regexp.MustCompile(`(?:Verletzt|Angeschlagen|Gesperrt|Trainingsrückstand):\s*(\S+)`)
)

// ParsePlayerStatus reads a team page and derives the player's status. It
// tries the player list, then the predicted lineup, then player images.
func ParsePlayerStatus(r io.Reader, playerName string) (models.AvailabilityInfo, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return models.AvailabilityInfo{}, fmt.Errorf("parsing team page: %w", err)
	}

	if info, ok := fromPlayerList(doc, playerName); ok {
		return info, nil
	}
	if info, ok := fromLineup(doc, playerName); ok {
		return info, nil
	}
	if info, ok := fromImages(doc, playerName); ok {
		return info, nil
	}
	return models.AvailabilityInfo{}, ErrPlayerNotFound
}

func fromPlayerList(doc *html.Node, playerName string) (models.AvailabilityInfo, bool) {
	var match *html.Node
	walk(doc, func(n *html.Node) bool {
		if isElement(n, "div") && hasClass(n, "player_name") && nameMatches(textContent(n), playerName) {
			match = n
			return false
		}
		return true
	})
	if match == nil {
		return models.AvailabilityInfo{}, false
	}

	section := closest(match, func(n *html.Node) bool { return isElement(n, "section") })
	if section != nil && containsAny(textContent(section), sectionInjuryMarkers) {
		return models.AvailabilityInfo{
			IsLikelyToPlay: false,
			Reason:         reasonInjuredOrSuspended,
			Confidence:     0.9,
		}, true
	}
	return models.AvailabilityInfo{IsLikelyToPlay: true, Confidence: 0.9}, true
}

func fromLineup(doc *html.Node, playerName string) (models.AvailabilityInfo, bool) {
	var match *html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && strings.HasPrefix(attr(n, "class"), "boost") &&
			nameMatches(textContent(n), playerName) {
			match = n
			return false
		}
		return true
	})
	if match == nil {
		return models.AvailabilityInfo{}, false
	}

	status := closest(match, func(n *html.Node) bool { return hasClass(n, "stadium_container_bg") })
	if status == nil {
		status = match.Parent
	}
	if status == nil {
		return models.AvailabilityInfo{IsLikelyToPlay: true, Confidence: 0.8}, true
	}

	text := textContent(status)
	if !containsAny(text, lineupInjuryMarkers) {
		return models.AvailabilityInfo{IsLikelyToPlay: true, Confidence: 0.8}, true
	}

	reason := text
	if m := lineupReasonPattern.FindStringSubmatch(text); m != nil {
		reason = m[1]
	}
	return models.AvailabilityInfo{IsLikelyToPlay: false, Reason: reason, Confidence: 0.9}, true
}

func fromImages(doc *html.Node, playerName string) (models.AvailabilityInfo, bool) {
	var match *html.Node
	walk(doc, func(n *html.Node) bool {
		if isElement(n, "img") && nameMatches(attr(n, "src"), playerName) {
			match = n
			return false
		}
		return true
	})
	if match == nil {
		return models.AvailabilityInfo{}, false
	}

	container := closest(match, func(n *html.Node) bool { return isElement(n, "table") || isElement(n, "section") })
	if container != nil {
		text := textContent(container)
		if strings.Contains(text, "fehlen") {
			reason := availability.ReasonNotInSquad
			pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(playerName) + `.*?(Verletzt|Angeschlagen|Gesperrt|Trainingsrückstand)`)
			if m := pattern.FindString(text); m != "" {
				reason = m
			}
			return models.AvailabilityInfo{IsLikelyToPlay: false, Reason: reason, Confidence: 0.9}, true
		}
	}
	return models.AvailabilityInfo{IsLikelyToPlay: true, Confidence: 0.7}, true
}

// nameMatches reports whether text mentions the player. Besides a plain
// substring match it accepts single tokens that differ by accents, umlaut
// transliteration or a small edit distance, since page markup and image paths
// spell names inconsistently.
func nameMatches(text, playerName string) bool {
	name := strings.ToLower(strings.TrimSpace(playerName))
	if name == "" {
		return false
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, name) {
		return true
	}

	nameLen := utf8.RuneCountInString(name)
	for _, tok := range strings.FieldsFunc(lower, isSeparator) {
		tokLen := utf8.RuneCountInString(tok)
		if tokLen < 3 {
			continue
		}
		if diff := tokLen - nameLen; diff >= -1 && diff <= 2 && fuzzy.MatchNormalizedFold(name, tok) {
			return true
		}
		distance := fuzzy.LevenshteinDistance(name, tok)
		similarity := 1 - float64(distance)/float64(max(nameLen, tokLen))
		if similarity > nameSimilarityThreshold {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r)
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if match(p) {
			return p
		}
	}
	return nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		return true
	})
	return sb.String()
}
