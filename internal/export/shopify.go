package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/turmarkt/trendyol-catalog/internal/models"
)

// Row is one line of the flattened import schema consumed by the downstream
// commerce platform. A record with N images fans out to 1 primary row plus
// N-1 image-only rows sharing the same Handle.
type Row struct {
	Handle                    string
	Title                     string
	BodyHTML                  string
	Vendor                    string
	ProductCategory           string
	Type                      string
	Tags                      string
	Published                 string
	Option1Name               string
	Option1Value              string
	VariantSKU                string
	VariantInventoryTracker   string
	VariantInventoryQty       string
	VariantInventoryPolicy    string
	VariantFulfillmentService string
	VariantPrice              string
	VariantRequiresShipping   string
	VariantTaxable            string
	ImageSrc                  string
	ImagePosition             string
	ImageAltText              string
	Status                    string
	DatabaseID                string
	Properties                string
}

// Columns returns the export header in its fixed order.
func Columns() []string {
	return []string{
		"Handle", "Title", "Body (HTML)", "Vendor", "Product Category",
		"Type", "Tags", "Published", "Option1 Name", "Option1 Value",
		"Variant SKU", "Variant Inventory Tracker", "Variant Inventory Qty",
		"Variant Inventory Policy", "Variant Fulfillment Service",
		"Variant Price", "Variant Requires Shipping", "Variant Taxable",
		"Image Src", "Image Position", "Image Alt Text", "Status",
		"Database ID", "Properties",
	}
}

// Values returns the row's fields in Columns order.
func (r Row) Values() []string {
	return []string{
		r.Handle, r.Title, r.BodyHTML, r.Vendor, r.ProductCategory,
		r.Type, r.Tags, r.Published, r.Option1Name, r.Option1Value,
		r.VariantSKU, r.VariantInventoryTracker, r.VariantInventoryQty,
		r.VariantInventoryPolicy, r.VariantFulfillmentService,
		r.VariantPrice, r.VariantRequiresShipping, r.VariantTaxable,
		r.ImageSrc, r.ImagePosition, r.ImageAltText, r.Status,
		r.DatabaseID, r.Properties,
	}
}

// Source category labels map to the platform's category taxonomy and a
// product type. Unrecognized labels fall through to the generic defaults.
var categoryMapping = map[string]string{
	"Giyim":      "Clothing & Accessories > Women's Clothing",
	"Elbise":     "Clothing & Accessories > Women's Clothing > Dresses",
	"Ayakkabı":   "Shoes > Women's Shoes",
	"Çanta":      "Bags & Purses > Handbags",
	"Aksesuar":   "Jewelry & Accessories > Fashion Accessories",
	"Ev & Yaşam": "Home & Living",
	"Elektronik": "Electronics > Consumer Electronics",
	"Kozmetik":   "Health & Beauty > Personal Care",
	"Spor":       "Sports & Recreation > Athletic Clothing",
	"Çocuk":      "Kids & Baby > Children's Clothing",
	"Erkek":      "Clothing & Accessories > Men's Clothing",
	"Kitap":      "Books, Movies & Music > Books",
}

var typeMapping = map[string]string{
	"Giyim":      "Casual Wear",
	"Elbise":     "Dress",
	"Ayakkabı":   "Shoes",
	"Çanta":      "Handbag",
	"Aksesuar":   "Accessory",
	"Ev & Yaşam": "Home Decor",
	"Elektronik": "Electronic Device",
	"Kozmetik":   "Beauty Product",
	"Spor":       "Sportswear",
	"Çocuk":      "Kids Wear",
	"Erkek":      "Menswear",
	"Kitap":      "Book",
}

const (
	defaultProductCategory = "Clothing & Accessories > General"
	defaultProductType     = "General"
)

// Convert maps one validated record (and the catalog id assigned at
// ingestion, or an externally supplied one) into export rows. Row 1 carries
// the scalar fields plus the first image; rows 2..N carry only the image
// fields, the shared Handle and the catalog id. With no valid images a
// single row with blank image fields is emitted.
func Convert(rec *models.Record, productID int64) []Row {
	handle := Handle(rec.Title)
	title := cleanText(rec.Title, 255)

	category, ok := categoryMapping[rec.Category]
	if !ok {
		category = defaultProductCategory
	}
	productType, ok := typeMapping[rec.Category]
	if !ok {
		productType = defaultProductType
	}

	propertiesHTML := PropertiesHTML(rec.Properties)

	base := Row{
		Handle:                    handle,
		Title:                     rec.Title,
		BodyHTML:                  propertiesHTML,
		ProductCategory:           category,
		Type:                      productType,
		Tags:                      cleanText(strings.ToLower(strings.Join(strings.Fields(rec.Title), ", ")), 255),
		Published:                 "TRUE",
		Option1Name:               "Title",
		Option1Value:              "Default Title",
		VariantSKU:                handle,
		VariantInventoryTracker:   "shopify",
		VariantInventoryQty:       "100",
		VariantInventoryPolicy:    "deny",
		VariantFulfillmentService: "manual",
		VariantPrice:              rec.Price.StringFixed(2),
		VariantRequiresShipping:   "TRUE",
		VariantTaxable:            "TRUE",
		Status:                    "active",
		DatabaseID:                strconv.FormatInt(productID, 10),
		Properties:                propertiesHTML,
	}

	if len(rec.ImageURLs) == 0 {
		return []Row{base}
	}

	base.ImageSrc = rec.ImageURLs[0]
	base.ImagePosition = "1"
	base.ImageAltText = title

	rows := []Row{base}
	for i, url := range rec.ImageURLs[1:] {
		position := i + 2
		rows = append(rows, Row{
			Handle:        handle,
			ImageSrc:      url,
			ImagePosition: strconv.Itoa(position),
			ImageAltText:  fmt.Sprintf("%s - %d", title, position),
			DatabaseID:    base.DatabaseID,
		})
	}

	return rows
}

// PropertiesHTML renders the extracted attribute map as the description
// markup stored on the product. Keys are emitted in sorted order.
func PropertiesHTML(properties map[string]string) string {
	if len(properties) == 0 {
		return ""
	}

	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<div class='product-properties'>\n")
	b.WriteString("<h3>Ürün Özellikleri</h3>\n")
	b.WriteString("<ul>\n")
	for _, key := range keys {
		b.WriteString(fmt.Sprintf("<li><strong>%s:</strong> %s</li>\n",
			cleanText(key, 100), cleanText(properties[key], 100)))
	}
	b.WriteString("</ul>\n")
	b.WriteString("</div>")
	return b.String()
}

// cleanText collapses whitespace and truncates to max characters.
func cleanText(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max])
	}
	return text
}
