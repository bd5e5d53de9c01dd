package parser

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turmarkt/trendyol-catalog/internal/pricing"
)

func newTestParser() *Parser {
	return New(Options{
		CDNHost:   "cdn.dsmcdn.com",
		MaxImages: 8,
		Markup:    pricing.Markup{Percent: decimal.NewFromInt(10)},
	})
}

func TestExtractTitle(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "current heading markup",
			html:     `<h1 class="pr-new-br">Kadın Siyah Elbise</h1>`,
			expected: "Kadın Siyah Elbise",
		},
		{
			name:     "legacy heading markup",
			html:     `<h1 class="detail-name">  Spor Ayakkabı  </h1>`,
			expected: "Spor Ayakkabı",
		},
		{
			name: "selector order is a contract",
			html: `<h1 class="product-name">Second Choice</h1>
				<h1 class="pr-new-br">First Choice</h1>`,
			expected: "First Choice",
		},
		{
			name:     "og:title meta fallback",
			html:     `<meta property="og:title" content="Meta Başlık"/>`,
			expected: "Meta Başlık",
		},
		{
			name: "embedded state script fallback",
			html: `<script type="application/javascript">
				window.__PRODUCT_DETAIL_APP_INITIAL_STATE__ = {"product":{"name":"State Ürünü"}};
			</script>`,
			expected: "State Ürünü",
		},
		{
			name:     "no source yields empty",
			html:     `<div>nothing here</div>`,
			expected: "",
		},
		{
			name:     "empty heading falls through to meta",
			html:     `<h1 class="pr-new-br">   </h1><meta property="og:title" content="Fallback"/>`,
			expected: "Fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := p.ParseProductPage(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, record.Title)
		})
	}
}

func TestExtractPrice(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "discounted price element with markup applied",
			html:     `<span class="prc-dsc">1.299,90 TL</span>`,
			expected: "1429.89",
		},
		{
			name:     "plain comma price",
			html:     `<span class="product-price">199,90</span>`,
			expected: "219.89",
		},
		{
			name: "first selector wins over later ones",
			html: `<span class="prc-dsc">100,00 TL</span>
				<span class="price-new">999,00 TL</span>`,
			expected: "110.00",
		},
		{
			name: "state script fallback",
			html: `<script type="application/javascript">
				window.__PRODUCT_DETAIL_APP_INITIAL_STATE__ = {"product":{"price":1299.99}};
			</script>`,
			expected: "1429.99",
		},
		{
			name:     "unparseable price yields zero",
			html:     `<span class="prc-dsc">fiyat sorunuz</span>`,
			expected: "0",
		},
		{
			name:     "no price source yields zero",
			html:     `<div>no price</div>`,
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := p.ParseProductPage(tt.html)
			require.NoError(t, err)
			assert.True(t, record.Price.Equal(decimal.RequireFromString(tt.expected)),
				"price = %s, want %s", record.Price, tt.expected)
		})
	}
}

func TestExtractPriceMarkupAppliedOncePerRun(t *testing.T) {
	p := newTestParser()
	html := `<span class="prc-dsc">100,00 TL</span>`

	first, err := p.ParseProductPage(html)
	require.NoError(t, err)
	second, err := p.ParseProductPage(html)
	require.NoError(t, err)

	// Each run starts from the raw text, so the markup never compounds.
	assert.Equal(t, "110.00", first.Price.StringFixed(2))
	assert.True(t, first.Price.Equal(second.Price))
}

func TestExtractImages(t *testing.T) {
	p := newTestParser()

	t.Run("css pass with attribute fallbacks and dedup", func(t *testing.T) {
		html := `
			<img class="product-image" src="/ty1/a.jpg"/>
			<img class="gallery-image" data-src="//cdn.dsmcdn.com/ty1/a.jpg?x=1"/>
			<img class="detail-image" data-lazy="/ty1/b.png"/>
			<img class="product-image" src="/ignored.txt"/>`

		record, err := p.ParseProductPage(html)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://cdn.dsmcdn.com/ty1/a.jpg",
			"https://cdn.dsmcdn.com/ty1/b.png",
		}, record.ImageURLs)
	})

	t.Run("state script list of strings", func(t *testing.T) {
		html := `<script>
			window.__PRODUCT_DETAIL_APP_INITIAL_STATE__ = {"product":{"images":["/ty2/1.jpg","/ty2/2.webp"]}};
		</script>`

		record, err := p.ParseProductPage(html)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://cdn.dsmcdn.com/ty2/1.jpg",
			"https://cdn.dsmcdn.com/ty2/2.webp",
		}, record.ImageURLs)
	})

	t.Run("state script list of objects", func(t *testing.T) {
		html := `<script>
			window.__PRODUCT_DATA__ = {"images":[{"url":"/ty3/1.jpg"},{"src":"/ty3/2.jpg"},{"imageUrl":"/ty3/3.jpg"}]};
		</script>`

		record, err := p.ParseProductPage(html)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://cdn.dsmcdn.com/ty3/1.jpg",
			"https://cdn.dsmcdn.com/ty3/2.jpg",
			"https://cdn.dsmcdn.com/ty3/3.jpg",
		}, record.ImageURLs)
	})

	t.Run("css pass runs before state pass and shares the dedup set", func(t *testing.T) {
		html := `
			<img class="product-image" src="/ty4/css.jpg"/>
			<script>
			window.__PRODUCT_DETAIL_APP_INITIAL_STATE__ = {"images":["/ty4/css.jpg","/ty4/state.jpg"]};
			</script>`

		record, err := p.ParseProductPage(html)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://cdn.dsmcdn.com/ty4/css.jpg",
			"https://cdn.dsmcdn.com/ty4/state.jpg",
		}, record.ImageURLs)
	})

	t.Run("malformed state json is ignored", func(t *testing.T) {
		html := `
			<script>window.__PRODUCT_DATA__ = {broken json};</script>
			<img class="product-image" src="/ty5/ok.jpg"/>`

		record, err := p.ParseProductPage(html)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn.dsmcdn.com/ty5/ok.jpg"}, record.ImageURLs)
	})

	t.Run("hard cap of eight", func(t *testing.T) {
		html := ""
		for i := 0; i < 12; i++ {
			html += fmt.Sprintf(`<img class="product-image" src="/ty6/%d.jpg"/>`, i)
		}

		record, err := p.ParseProductPage(html)
		require.NoError(t, err)
		require.Len(t, record.ImageURLs, 8)
		assert.Equal(t, "https://cdn.dsmcdn.com/ty6/0.jpg", record.ImageURLs[0])
		assert.Equal(t, "https://cdn.dsmcdn.com/ty6/7.jpg", record.ImageURLs[7])
	})
}

func TestExtractCategory(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "last breadcrumb anchor",
			html:     `<div class="breadcrumb"><a>Trendyol</a><a>Kadın</a><a>Elbise</a></div>`,
			expected: "Elbise",
		},
		{
			name:     "product categories container",
			html:     `<div class="product-categories"><a>Ayakkabı</a></div>`,
			expected: "Ayakkabı",
		},
		{
			name: "state script fallback",
			html: `<script>
				window.__PRODUCT_DETAIL_APP_INITIAL_STATE__ = {"product":{"categoryName":"Çanta"}};
			</script>`,
			expected: "Çanta",
		},
		{
			name:     "default when nothing matches",
			html:     `<div>no category</div>`,
			expected: DefaultCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := p.ParseProductPage(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, record.Category)
		})
	}
}

func TestExtractProperties(t *testing.T) {
	p := newTestParser()

	html := `
		<ul>
			<li class="detail-attr-item"><span>Kumaş</span><span>Pamuk</span></li>
			<li class="detail-attr-item"><span>Renk</span><span>Siyah</span></li>
			<li class="detail-attr-item"><span>OnlyOneSpan</span></li>
		</ul>
		<ul class="detail-desc-list">
			<li>Yıkama: 30 derece</li>
			<li>no separator here</li>
		</ul>`

	record, err := p.ParseProductPage(html)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Kumaş":  "Pamuk",
		"Renk":   "Siyah",
		"Yıkama": "30 derece",
	}, record.Properties)
}

func TestValidityGateFields(t *testing.T) {
	p := newTestParser()

	t.Run("missing title rejects record despite valid price and images", func(t *testing.T) {
		html := `
			<span class="prc-dsc">100,00 TL</span>
			<img class="product-image" src="/x/a.jpg"/>`

		record, err := p.ParseProductPage(html)
		require.NoError(t, err)
		assert.False(t, record.Valid())
	})

	t.Run("complete page yields valid record", func(t *testing.T) {
		html := `
			<h1 class="pr-new-br">Kadın Elbise</h1>
			<span class="prc-dsc">100,00 TL</span>`

		record, err := p.ParseProductPage(html)
		require.NoError(t, err)
		assert.True(t, record.Valid())
	})
}
