package heuristic

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	containerSelector = "main, section, article, div, ul, ol"
	maxScopes         = 3
)

var signalWords = []string{
	"career", "employment", "hiring", "job", "position", "opening",
	"opportunit", "join our team", "apply", "work with us",
}

type scoredContainer struct {
	sel   *goquery.Selection
	node  *html.Node
	hits  int
	order int
}

// SignalHits counts occurrences of careers-related signal words in text
func SignalHits(text string) int {
	lc := strings.ToLower(text)
	hits := 0
	for _, w := range signalWords {
		hits += strings.Count(lc, w)
	}
	return hits
}

// selectScopes ranks containers by signal hits and keeps the top few. An
// ancestor whose score equals one of its descendants' adds nothing but noise,
// so the deepest container carrying a given score represents it. Falls back
// to the whole document when no container mentions a signal word.
func selectScopes(doc *goquery.Document) []*goquery.Selection {
	var scored []*scoredContainer
	byNode := make(map[*html.Node]*scoredContainer)
	doc.Find(containerSelector).Each(func(i int, s *goquery.Selection) {
		hits := SignalHits(s.Text())
		if hits == 0 {
			return
		}
		c := &scoredContainer{sel: s, node: s.Nodes[0], hits: hits, order: i}
		scored = append(scored, c)
		byNode[c.node] = c
	})
	if len(scored) == 0 {
		return []*goquery.Selection{doc.Selection}
	}

	shadowed := make(map[*html.Node]bool)
	for _, c := range scored {
		for p := c.node.Parent; p != nil; p = p.Parent {
			if anc, ok := byNode[p]; ok && anc.hits == c.hits {
				shadowed[p] = true
			}
		}
	}

	kept := scored[:0:0]
	for _, c := range scored {
		if !shadowed[c.node] {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].hits > kept[j].hits
	})
	if len(kept) > maxScopes {
		kept = kept[:maxScopes]
	}
	//scan in document order so output is stable across equal scores
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].order < kept[j].order
	})

	scopes := make([]*goquery.Selection, len(kept))
	for i, c := range kept {
		scopes[i] = c.sel
	}
	return scopes
}
