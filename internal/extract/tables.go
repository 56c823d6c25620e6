package extract

import (
	"regexp"

	"catalogsync/internal/normalize"
)

const (
	dimNumber  = `(\d+(?:[.,]\d+)?(?:/\d+)?)`
	dimUnit    = `(mm|cm|inches|inch|in|feet|ft)\b`
	dimBy      = `\s*[x×]\s*`
	priceValue = `(\d+(?:[,.]\d{1,3})*(?:[,.]\d{1,2})?)`
)

// DimensionPattern describes one way a page writes sizes. ValueGroups are
// the submatch indexes of the numbers; the unit comes from UnitGroup or,
// for quote notations, from FixedUnit. Axis is set for labeled values.
type DimensionPattern struct {
	Re          *regexp.Regexp
	ValueGroups []int
	UnitGroup   int
	FixedUnit   string
	Axis        string
}

// Tables is the read-only pattern configuration of an Extractor.
type Tables struct {
	BotPhrases []string

	Name        []TextPattern
	Description []TextPattern

	Prices          []*regexp.Regexp
	OriginalPrices  []TextPattern
	CurrencySymbols map[string]string
	DefaultCurrency string

	Brand         []TextPattern
	BrandDenylist []string
	BrandMinLen   int
	BrandMaxLen   int

	SKU          []TextPattern
	Material     []TextPattern
	Availability []TextPattern

	Dimensions []DimensionPattern

	LeadTime    []*regexp.Regexp
	MinLeadTime int
	MaxLeadTime int

	ProductImage *regexp.Regexp
	ImageMeta    ListPattern

	DescriptionLimit int
}

func DefaultTables() Tables {
	return Tables{
		BotPhrases: []string{
			"Enter the characters you see below",
			"Sorry, we just need to make sure you're not a robot",
			"Type the characters you see in this image",
		},
		Name: []TextPattern{
			Selector("title"),
			Selector("h1"),
			SelectorAttr(`meta[property="og:title"]`, "content"),
			SelectorAttr(`meta[name="title"]`, "content"),
		},
		Description: []TextPattern{
			SelectorAttr(`meta[name="description"]`, "content"),
			SelectorAttr(`meta[property="og:description"]`, "content"),
			Selector(`div[class*="description"]`),
			Selector(`p[class*="description"]`),
		},
		Prices: []*regexp.Regexp{
			regexp.MustCompile(`[$£€¥]` + priceValue),
			regexp.MustCompile(`(?i)<span[^>]*class="[^"]*price[^"]*"[^>]*>.*?[$£€¥]?` + priceValue + `.*?</span>`),
			regexp.MustCompile(`(?i)<div[^>]*class="[^"]*price[^"]*"[^>]*>.*?[$£€¥]?` + priceValue + `.*?</div>`),
		},
		OriginalPrices: []TextPattern{
			Selector(`.a-text-price .a-offscreen`),
			Selector(`[class*="list-price"]`),
			Selector(`[class*="was-price"]`),
			Selector(`[class*="compare-at"]`),
			Selector(`[class*="original-price"]`),
			Selector(`[class*="price-old"]`),
			Regex(`(?i)(?:List Price|Was|Original Price|Regular Price)\s*:?\s*[$£€¥]\s*`+priceValue, 1),
		},
		CurrencySymbols: map[string]string{"$": "USD", "£": "GBP", "€": "EUR", "¥": "JPY"},
		DefaultCurrency: "USD",
		Brand: []TextPattern{
			SelectorAttr(`meta[property="product:brand"]`, "content"),
			Selector(`span[class*="brand"]`),
			Selector(`div[class*="brand"]`),
			Selector(`span[id*="brand"]`),
			Selector(`a#bylineInfo`),
			Regex(`(?i)\bby\s+([A-Z][A-Za-z0-9\s&]+?)(?:\s|$|<)`, 1),
			Regex(`(?i)Brand[:\s]*([A-Za-z0-9\s&\-]+?)(?:\s|$|<)`, 1),
		},
		BrandDenylist: []string{"logo", "byline", "regardless", "weblab", "treatment"},
		BrandMinLen:   4,
		BrandMaxLen:   49,
		SKU: []TextPattern{
			Regex(`(?i)\bSKU\b[:\s#]*([A-Za-z0-9\-_]+)`, 1),
			Regex(`(?i)\bModel\b[:\s#]*([A-Za-z0-9\-_]+(?:[ \t]+[A-Za-z0-9\-_]+)*)`, 1),
			Regex(`(?i)\bPart\s*Number[:\s#]*([A-Za-z0-9\-_]+)`, 1),
			Selector(`span[class*="sku"]`),
		},
		Material: []TextPattern{
			Regex(`(?i)\bMaterial[:\s]+([A-Za-z0-9][A-Za-z0-9 \t\-_]*)`, 1),
			Regex(`(?i)\b(Stainless Steel|Carbon Fiber|Aluminum|Aluminium|Steel|Plastic|Copper|Brass|Bronze|Iron|Wood|Glass|Titanium)\b`, 1),
		},
		Availability: []TextPattern{
			Regex(`(?i)(In Stock|Out of Stock|Available|Unavailable|Limited Stock)`, 1),
			Selector(`span[class*="stock"]`),
		},
		Dimensions: []DimensionPattern{
			{Re: regexp.MustCompile(`(?i)` + dimNumber + dimBy + dimNumber + dimBy + dimNumber + `\s*` + dimUnit), ValueGroups: []int{1, 2, 3}, UnitGroup: 4},
			{Re: regexp.MustCompile(`(?i)` + dimNumber + dimBy + dimNumber + `\s*` + dimUnit), ValueGroups: []int{1, 2}, UnitGroup: 3},
			{Re: regexp.MustCompile(`(?i)\bLength[:\s]*` + dimNumber + `\s*` + dimUnit), ValueGroups: []int{1}, UnitGroup: 2, Axis: AxisLength},
			{Re: regexp.MustCompile(`(?i)\bWidth[:\s]*` + dimNumber + `\s*` + dimUnit), ValueGroups: []int{1}, UnitGroup: 2, Axis: AxisWidth},
			{Re: regexp.MustCompile(`(?i)\bHeight[:\s]*` + dimNumber + `\s*` + dimUnit), ValueGroups: []int{1}, UnitGroup: 2, Axis: AxisHeight},
			{Re: regexp.MustCompile(`(?i)\bDiameter[:\s]*` + dimNumber + `\s*` + dimUnit), ValueGroups: []int{1}, UnitGroup: 2, Axis: AxisDiameter},
			{Re: regexp.MustCompile(dimNumber + `\s*["″]` + dimBy + dimNumber + `\s*["″]`), ValueGroups: []int{1, 2}, FixedUnit: normalize.UnitIn},
			{Re: regexp.MustCompile(dimNumber + `\s*['′]` + dimBy + dimNumber + `\s*['′]`), ValueGroups: []int{1, 2}, FixedUnit: normalize.UnitFt},
			{Re: regexp.MustCompile(`(?i)(\d+(?:/\d+)?)` + dimBy + `(\d+(?:/\d+)?)(?:` + dimBy + `(\d+(?:/\d+)?))?\s*(inches|inch|in|feet|ft)\b`), ValueGroups: []int{1, 2, 3}, UnitGroup: 4},
		},
		LeadTime: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:delivery|shipping|arrives?|ships?)[^.]*?(\d+)(?:\s*[-–]\s*(\d+))?\s*(?:business\s+)?days?\b`),
			regexp.MustCompile(`(?i)(?:delivery|shipping|arrives?|ships?)[^.]*?(\d+)\s*(?:to|-|–)\s*(\d+)\s*(?:business\s+)?days?\b`),
			regexp.MustCompile(`(?i)(\d+)(?:\s*[-–]\s*(\d+))?\s*(?:business\s+)?days?\s*(?:delivery|shipping|to\s+arrive|to\s+ship)`),
			regexp.MustCompile(`(?i)(?:estimated\s+)?(?:delivery|shipping|arrival).*?(\d+)(?:\s*[-–]\s*(\d+))?\s*(?:business\s+)?days?\b`),
			regexp.MustCompile(`(?i)(?:ships?\s+in|ready\s+in|dispatch(?:es)?\s+in|available\s+in)\s*(\d+)(?:\s*[-–]\s*(\d+))?\s*(?:business\s+)?days?\b`),
			regexp.MustCompile(`(?i)(?:lead\s+time|processing\s+time|handling\s+time).*?(\d+)(?:\s*[-–]\s*(\d+))?\s*(?:business\s+)?days?\b`),
		},
		MinLeadTime:      1,
		MaxLeadTime:      90,
		ProductImage:     regexp.MustCompile(`(?i)<img[^>]*src="([^"]*product[^"]*\.(?:jpg|jpeg|png|webp))"[^>]*>`),
		ImageMeta:        SelectorAttrAll(`meta[property="og:image"]`, "content"),
		DescriptionLimit: 500,
	}
}
