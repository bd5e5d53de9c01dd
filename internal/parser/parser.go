package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/turmarkt/trendyol-catalog/internal/imageurl"
	"github.com/turmarkt/trendyol-catalog/internal/models"
	"github.com/turmarkt/trendyol-catalog/internal/pricing"
)

// DefaultCategory is used when neither the breadcrumb nor the state script
// carries a category. Category never blocks the pipeline.
const DefaultCategory = "Giyim"

// Parser extracts a normalized product record from raw page HTML. It is
// pure and stateless per call: no I/O, safe for concurrent use.
//
// Every field is recovered through an ordered list of strategies reflecting
// decreasing confidence; the first strategy that yields a usable value wins
// and later ones are never consulted. The ordering is a contract: markup
// that matches more than one pattern must resolve deterministically.
type Parser struct {
	titleSelectors []string
	priceSelectors []string
	imageSelectors []string
	imageAttrs     []string
	breadcrumbSel  string
	cdnHost        string
	maxImages      int
	markup         pricing.Markup
}

type Options struct {
	CDNHost   string
	MaxImages int
	Markup    pricing.Markup
}

func New(opts Options) *Parser {
	if opts.MaxImages <= 0 {
		opts.MaxImages = 8
	}

	return &Parser{
		titleSelectors: []string{
			"h1.pr-new-br",
			"h1.product-name",
			"h1.title",
			"h1.detail-name",
			"h1[data-drroot]",
			"span.product-name",
			"span.title",
			"div.pr-in-w > span",
		},
		priceSelectors: []string{
			"span.prc-dsc",
			"span.price-new",
			"span.product-price",
			"span[data-price]",
			"span.prc-slg",
			"div.pr-in-w > div.pr-in-cn > div.pr-bx-w > div.pr-bx-dsc > span.prc-dsc",
			"div.featured-prices > span.featured-prices_first",
		},
		imageSelectors: []string{
			"img.detail-section-img",
			"img.product-image",
			"img.gallery-image",
			"img.detail-image",
			"img[data-src]",
			"div.gallery-modal-content img",
			"div.product-slide img",
			"div.base-product-image img",
			"div.gallery-modal img",
			"div.image-container img",
			"img.ph-image",
			".slider-content img",
		},
		imageAttrs: []string{
			"src", "data-src", "data-original", "data-lazy", "data-zoom-image",
		},
		breadcrumbSel: "div.breadcrumb, div.product-categories",
		cdnHost:       opts.CDNHost,
		maxImages:     opts.MaxImages,
		markup:        opts.Markup,
	}
}

// ParseProductPage extracts title, price, images, category and properties
// from html. Missing fields degrade to empty/zero values; only malformed
// HTML returns an error. Validity (title non-empty, price positive) is the
// caller's gate, not the parser's.
func (p *Parser) ParseProductPage(html string) (*models.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &models.Record{
		Title:      p.extractTitle(doc),
		Price:      p.extractPrice(doc),
		ImageURLs:  p.extractImages(doc),
		Category:   p.extractCategory(doc),
		Properties: p.extractProperties(doc),
	}, nil
}

// extractTitle tries the selector chain, then the og:title meta tag, then
// the "name" key of the embedded state script.
func (p *Parser) extractTitle(doc *goquery.Document) string {
	for _, selector := range p.titleSelectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}

	if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if text := strings.TrimSpace(content); text != "" {
			return text
		}
	}

	if script := stateScript(doc); script != "" {
		if match := stateNameRe.FindStringSubmatch(script); match != nil {
			return match[1]
		}
	}

	return ""
}

// extractPrice tries the selector chain, then the "price" key of the state
// script. The markup is applied exactly once, at acceptance; a re-run over
// the same HTML starts again from the raw text, so it never compounds.
func (p *Parser) extractPrice(doc *goquery.Document) decimal.Decimal {
	for _, selector := range p.priceSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text == "" {
			continue
		}
		if base := pricing.Clean(text); base.IsPositive() {
			return p.markup.Apply(base)
		}
	}

	if script := stateScript(doc); script != "" {
		if match := statePriceRe.FindStringSubmatch(script); match != nil {
			if base := pricing.ParseState(match[1]); base.IsPositive() {
				return p.markup.Apply(base)
			}
		}
	}

	return decimal.Zero
}

// extractImages runs the CSS pass first, then the state-script JSON pass,
// both feeding one deduplicated first-seen-order list capped at maxImages.
func (p *Parser) extractImages(doc *goquery.Document) []string {
	dedup := imageurl.NewDedup(imageurl.Normalizer{CDNHost: p.cdnHost}, p.maxImages)

	for _, selector := range p.imageSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			for _, attr := range p.imageAttrs {
				if src, ok := s.Attr(attr); ok && src != "" {
					dedup.Add(src)
				}
			}
			return !dedup.Full()
		})
		if dedup.Full() {
			break
		}
	}

	if !dedup.Full() {
		collectStateImages(doc, dedup)
	}

	return dedup.URLs()
}

// extractCategory takes the last breadcrumb anchor, falls back to the
// state script, and finally to the default label.
func (p *Parser) extractCategory(doc *goquery.Document) string {
	if text := strings.TrimSpace(doc.Find(p.breadcrumbSel).Find("a").Last().Text()); text != "" {
		return text
	}

	if script := stateScript(doc); script != "" {
		if match := stateCategoryRe.FindStringSubmatch(script); match != nil {
			return match[1]
		}
	}

	return DefaultCategory
}

// extractProperties collects label/value attribute pairs from the detail
// sections. Best effort; an empty map is a normal outcome.
func (p *Parser) extractProperties(doc *goquery.Document) map[string]string {
	props := make(map[string]string)

	doc.Find("li.detail-attr-item").Each(func(_ int, s *goquery.Selection) {
		spans := s.Find("span")
		if spans.Length() < 2 {
			return
		}
		key := strings.TrimSpace(spans.Eq(0).Text())
		value := strings.TrimSpace(spans.Eq(1).Text())
		if key != "" && value != "" {
			props[key] = value
		}
	})

	doc.Find("ul.detail-desc-list li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		key, value, found := strings.Cut(text, ":")
		if !found {
			return
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			if _, exists := props[key]; !exists {
				props[key] = value
			}
		}
	})

	return props
}
