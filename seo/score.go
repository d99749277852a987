// Package seo rates generated articles against on-page SEO checks.
package seo

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
)

const (
	MinWordCount  = 300
	MinHeadings   = 2
	MinParagraphs = 3

	MinTitleLength = 30
	MaxTitleLength = 60
	MinMetaLength  = 70
	MaxMetaLength  = 160
)

type Finding struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Weight  int    `json:"weight"`
	Message string `json:"message"`
}

type Report struct {
	Score                   int       `json:"score"`
	Keyword                 string    `json:"keyword,omitempty"`
	WordCount               int       `json:"word_count"`
	HeadingCount            int       `json:"heading_count"`
	ParagraphCount          int       `json:"paragraph_count"`
	LinkCount               int       `json:"link_count"`
	ImagesWithoutAlt        int       `json:"images_without_alt"`
	KeywordInTitle          bool      `json:"keyword_in_title"`
	KeywordInFirstParagraph bool      `json:"keyword_in_first_paragraph"`
	KeywordInHeadings       bool      `json:"keyword_in_headings"`
	TitleLength             int       `json:"title_length"`
	MetaDescriptionLength   int       `json:"meta_description_length"`
	Findings                []Finding `json:"findings"`
}

// Score analyses content.HTMLBody. An empty keyword falls back to
// content.Keyword; with neither, keyword checks are left out of the score.
func Score(content cacheDomain.Content, keyword string) (Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.HTMLBody))
	if err != nil {
		return Report{}, fmt.Errorf("failed to parse html body: %w", err)
	}

	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		keyword = strings.ToLower(strings.TrimSpace(content.Keyword))
	}

	r := Report{
		Keyword:               keyword,
		WordCount:             len(strings.Fields(doc.Text())),
		HeadingCount:          doc.Find("h2, h3").Length(),
		ParagraphCount:        doc.Find("p").Length(),
		LinkCount:             doc.Find("a[href]").Length(),
		TitleLength:           utf8.RuneCountInString(strings.TrimSpace(content.Title)),
		MetaDescriptionLength: utf8.RuneCountInString(strings.TrimSpace(content.MetaDescription)),
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			r.ImagesWithoutAlt++
		}
	})

	if keyword != "" {
		r.KeywordInTitle = containsFold(content.Title, keyword)
		r.KeywordInFirstParagraph = containsFold(doc.Find("p").First().Text(), keyword)
		doc.Find("h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			r.KeywordInHeadings = containsFold(s.Text(), keyword)
			return !r.KeywordInHeadings
		})
	}

	r.Findings = []Finding{
		check("word_count", 15, r.WordCount >= MinWordCount,
			fmt.Sprintf("%d words (minimum %d)", r.WordCount, MinWordCount)),
		check("headings", 15, r.HeadingCount >= MinHeadings,
			fmt.Sprintf("%d h2/h3 headings (minimum %d)", r.HeadingCount, MinHeadings)),
		check("paragraphs", 10, r.ParagraphCount >= MinParagraphs,
			fmt.Sprintf("%d paragraphs (minimum %d)", r.ParagraphCount, MinParagraphs)),
		check("image_alt", 5, r.ImagesWithoutAlt == 0,
			fmt.Sprintf("%d images without alt text", r.ImagesWithoutAlt)),
		check("title_length", 10, inRange(r.TitleLength, MinTitleLength, MaxTitleLength),
			fmt.Sprintf("title has %d characters (%d-%d)", r.TitleLength, MinTitleLength, MaxTitleLength)),
		check("meta_description_length", 10, inRange(r.MetaDescriptionLength, MinMetaLength, MaxMetaLength),
			fmt.Sprintf("meta description has %d characters (%d-%d)", r.MetaDescriptionLength, MinMetaLength, MaxMetaLength)),
	}
	if keyword != "" {
		r.Findings = append(r.Findings,
			check("keyword_in_title", 15, r.KeywordInTitle, "focus keyword in title"),
			check("keyword_in_first_paragraph", 10, r.KeywordInFirstParagraph, "focus keyword in first paragraph"),
			check("keyword_in_headings", 10, r.KeywordInHeadings, "focus keyword in a subheading"),
		)
	}

	var total, earned int
	for _, f := range r.Findings {
		total += f.Weight
		if f.Passed {
			earned += f.Weight
		}
	}
	if total > 0 {
		r.Score = int(math.Round(float64(earned) * 100 / float64(total)))
	}
	return r, nil
}

func check(name string, weight int, passed bool, message string) Finding {
	return Finding{Check: name, Passed: passed, Weight: weight, Message: message}
}

func inRange(n, min, max int) bool {
	return n >= min && n <= max
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
