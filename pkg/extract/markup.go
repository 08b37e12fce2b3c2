package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/agentstation/specalign/pkg/authority"
	"github.com/agentstation/specalign/pkg/canon"
	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/logging"
	"github.com/agentstation/specalign/pkg/specs"
)

// RequirementToken matches requirement identifiers such as REQ-GQTS-01.
var RequirementToken = regexp.MustCompile(`\bREQ-[A-Z0-9](?:[A-Z0-9-]*[A-Z0-9])?\b`)

// NormativeKeywords is the normative vocabulary, longest forms first.
var NormativeKeywords = []string{
	"MUST NOT", "SHALL NOT", "SHOULD NOT",
	"MUST", "SHALL", "SHOULD",
	"RECOMMENDED", "REQUIRED", "OPTIONAL", "MAY",
}

var (
	sectionOpen   = regexp.MustCompile(`(?i)<section\b[^>]*\bid=(?:"([^"']+)"|'([^"']+)')[^>]*>`)
	dfnElement    = regexp.MustCompile(`(?is)<dfn\b([^>]*)>(.*?)</dfn>`)
	dtDefinition  = regexp.MustCompile(`(?is)^\s*</dt>\s*<dd>(.*?)</dd>`)
	idAttribute   = regexp.MustCompile(`(?i)\bid=(?:"([^"']+)"|'([^"']+)')`)
	termReference = regexp.MustCompile(`\[=([^=\]]+)=\]`)
	algorithmHint = regexp.MustCompile(`(?i)algorithm`)
)

// patterns holds the expressions derived from the authority table.
type patterns struct {
	table *authority.Table
	href  *regexp.Regexp
	label *regexp.Regexp
}

func compilePatterns(table *authority.Table) *patterns {
	slugs := make([]string, len(table.Families))
	for i, s := range table.Slugs() {
		slugs[i] = regexp.QuoteMeta(s)
	}
	ids := make([]string, len(table.Families))
	for i, id := range table.SpecIDs() {
		ids[i] = regexp.QuoteMeta(id)
	}
	target := `(https?://` + regexp.QuoteMeta(table.Host) + `/(` + strings.Join(slugs, "|") + `)/?[^"']*)`
	return &patterns{
		table: table,
		href:  regexp.MustCompile(`(?is)<a\b[^>]*href=(?:"` + target + `"|'` + target + `')[^>]*>(.*?)</a>`),
		label: regexp.MustCompile(`\[(` + strings.Join(ids, "|") + `)\]`),
	}
}

// firstGroup returns the first non-empty capture among groups, for
// expressions that spell a quoted value once per quote style.
func firstGroup(s string, m []int, groups ...int) string {
	for _, g := range groups {
		if m[2*g] >= 0 {
			return s[m[2*g]:m[2*g+1]]
		}
	}
	return ""
}

type section struct {
	offset int
	id     string
}

func sections(markup string) []section {
	var out []section
	for _, m := range sectionOpen.FindAllStringSubmatchIndex(markup, -1) {
		out = append(out, section{offset: m[0], id: firstGroup(markup, m, 1, 2)})
	}
	return out
}

// nearestSection returns the id of the last section starting at or before
// offset.
func nearestSection(secs []section, offset int) (string, bool) {
	id, found := "", false
	for _, s := range secs {
		if s.offset > offset {
			break
		}
		id, found = s.id, true
	}
	return id, found
}

// dfnID returns the id attribute of a <dfn> opening tag's attribute text.
func dfnID(attrs string) string {
	z := html.NewTokenizer(strings.NewReader("<dfn" + attrs + ">"))
	if z.Next() != html.StartTagToken {
		return ""
	}
	for {
		key, val, more := z.TagAttr()
		if string(key) == "id" {
			return string(val)
		}
		if !more {
			return ""
		}
	}
}

// terms keeps term ids unique within the document. A later <dfn> whose id
// is already taken gets the first free "-2", "-3", ... suffix.
func (e *extractor) terms(t *text) []specs.Term {
	secs := sections(t.s)
	terms := []specs.Term{}
	used := make(map[string]bool)
	for _, m := range dfnElement.FindAllStringSubmatchIndex(t.s, -1) {
		termText := canon.Clean(t.s[m[4]:m[5]])
		if termText == "" {
			continue
		}

		id := dfnID(t.s[m[2]:m[3]])
		if id == "" {
			id = canon.Slug(termText)
		}
		id = uniqueID(used, id)

		term := specs.Term{
			TermText: termText,
			TermID:   id,
			Anchor:   "#" + id,
		}
		if sec, ok := nearestSection(secs, m[0]); ok {
			anchor := "#" + sec
			term.SectionAnchor = &anchor
		}

		after := t.following(m[1], constants.DefinitionLookahead)
		if dd := dtDefinition.FindStringSubmatch(after); dd != nil {
			if def := canon.Clean(dd[1]); def != "" {
				sum := canon.HashString(canon.Canon(def))
				term.DefinitionExcerptHash = &sum
				term.DefinitionTextExcerpt = canon.Cut(def, constants.DefinitionExcerptLength)
			}
		}
		terms = append(terms, term)
	}
	return terms
}

func uniqueID(used map[string]bool, id string) string {
	candidate := id
	for n := 2; used[candidate]; n++ {
		candidate = id + "-" + strconv.Itoa(n)
	}
	used[candidate] = true
	return candidate
}

// clauses treats every id-bearing element near a requirement token, or whose
// id starts with "req-", as a clause. The first (clause id, element id) pair
// wins; later ones with different content are returned as shadowed.
func (e *extractor) clauses(ctx context.Context, t *text) ([]specs.Clause, []specs.ShadowedClause) {
	logger := logging.FromContext(ctx)
	clauses := []specs.Clause{}
	var shadowed []specs.ShadowedClause
	kept := make(map[string]string)

	for _, m := range idAttribute.FindAllStringSubmatchIndex(t.s, -1) {
		id := firstGroup(t.s, m, 1, 2)
		window := canon.Clean(t.around(m[0], constants.ClauseLookbehind, constants.ClauseLookahead))
		req := RequirementToken.FindString(window)
		if req == "" && !strings.HasPrefix(strings.ToLower(id), "req-") {
			continue
		}

		clauseID := req
		if clauseID == "" {
			clauseID = strings.ToUpper(id)
		}
		sum := canon.HashString(canon.Canon(window))

		key := clauseID + "|" + id
		if first, seen := kept[key]; seen {
			if first != sum {
				shadowed = append(shadowed, specs.ShadowedClause{
					ClauseID:        clauseID,
					Anchor:          "#" + id,
					TextExcerptHash: sum,
					KeptExcerptHash: first,
				})
				logger.Warn().
					Str("clause_id", clauseID).
					Str("anchor", "#"+id).
					Msg("Duplicate clause with different text dropped; first occurrence kept")
			}
			continue
		}
		kept[key] = sum

		clauses = append(clauses, specs.Clause{
			ClauseID:              clauseID,
			Anchor:                "#" + id,
			Kind:                  clauseKind(req, id, window),
			NormativeKeywordsUsed: normative(window),
			TextExcerptHash:       sum,
			TextExcerpt:           canon.Cut(window, constants.ClauseExcerptLength),
		})
	}
	return clauses, shadowed
}

func clauseKind(req, id, window string) specs.ClauseKind {
	switch {
	case req != "":
		return specs.KindRequirement
	case algorithmHint.MatchString(id + window):
		return specs.KindAlgorithm
	default:
		return specs.KindInvariant
	}
}

// normative lists the normative keywords that occur in text, in
// NormativeKeywords order. "MUST NOT" also counts as "MUST".
func normative(text string) []string {
	upper := strings.ToUpper(text)
	used := []string{}
	for _, k := range NormativeKeywords {
		if strings.Contains(upper, k) {
			used = append(used, k)
		}
	}
	return used
}

func (e *extractor) termReferences(markup string) []string {
	var refs []string
	for _, m := range termReference.FindAllStringSubmatch(markup, -1) {
		if ref := canon.Clean(m[1]); ref != "" {
			refs = append(refs, ref)
		}
	}
	return canon.Uniq(refs)
}

func (e *extractor) requirementReferences(markup string) []string {
	return canon.Uniq(RequirementToken.FindAllString(markup, -1))
}

// crossReferences records hyperlinks into a family's published documents,
// then bracketed family labels.
func (e *extractor) crossReferences(markup string) []specs.CrossReference {
	refs := []specs.CrossReference{}
	for _, m := range e.patterns.href.FindAllStringSubmatchIndex(markup, -1) {
		href := firstGroup(markup, m, 1, 3)
		family := e.patterns.table.BySlug(firstGroup(markup, m, 2, 4))
		if family == nil {
			continue
		}
		refs = append(refs, specs.CrossReference{
			Kind:         specs.RefHref,
			TargetSpecID: family.SpecID,
			Href:         &href,
			Label:        canon.Clean(firstGroup(markup, m, 5)),
		})
	}
	for _, m := range e.patterns.label.FindAllStringSubmatch(markup, -1) {
		refs = append(refs, specs.CrossReference{
			Kind:         specs.RefLabel,
			TargetSpecID: m[1],
			Label:        m[1],
		})
	}
	return refs
}
