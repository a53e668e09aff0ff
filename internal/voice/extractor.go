package voice

import (
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/nashikconnect/vyapaar/pkg/common"
)

const maxNameLength = 50

// Categories recognised in a transcript, in match priority order.
var Categories = []string{"clothing", "jewelry", "food", "handicraft", "home decor", "electronics"}

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	serialRe = regexp.MustCompile(`\b(sku|serial|code)(?:\s+(?:number|num|no\.?))?([-:#\s]*)([a-z0-9][a-z0-9-]*)`)

	sentenceRe = regexp.MustCompile(`[.!?]`)

	// marker then amount, amount then marker
	priceBeforeRe = regexp.MustCompile(`(?:₹|\brupees?\b|\brs\b\.?)\s*(\d+(?:,\d+)*(?:\.\d+)?)`)
	priceAfterRe  = regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:₹|\brupees?\b|\brs\b\.?)`)

	stockRe = regexp.MustCompile(`(\d+)\s*(?:pieces?|items?|units?|stock|quantity)`)
)

// Candidate is a best-effort product guess derived from a transcript.
// Only Extract builds one; callers read it through accessors.
type Candidate struct {
	serialNumber string
	name         string
	price        float64
	stock        int
	category     string
	description  string
}

func (c Candidate) SerialNumber() string { return c.serialNumber }
func (c Candidate) Name() string         { return c.name }
func (c Candidate) Price() float64       { return c.price }
func (c Candidate) Stock() int           { return c.stock }
func (c Candidate) Category() string     { return c.category }
func (c Candidate) Description() string  { return c.description }

type candidateJSON struct {
	SerialNumber string  `json:"serial_number,omitempty"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	Category     string  `json:"category,omitempty"`
	Description  string  `json:"description"`
}

func (c Candidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(candidateJSON{
		SerialNumber: c.serialNumber,
		Name:         c.name,
		Price:        c.price,
		Stock:        c.stock,
		Category:     c.category,
		Description:  c.description,
	})
}

// Extract derives a Candidate from a finished transcript.
// Missing fields keep their zero value; the first match in source order wins.
func Extract(transcript string) Candidate {
	text := strings.ToLower(transcript)
	return Candidate{
		serialNumber: extractSerial(text),
		name:         extractName(transcript),
		price:        extractPrice(text),
		stock:        extractStock(text),
		category:     extractCategory(text),
		description:  transcript,
	}
}

func extractSerial(text string) string {
	m := serialRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	keyword, sep, token := m[1], m[2], m[3]
	// "sku-001" and "sku001" name the code itself, "serial: ab12" introduces it
	if sep == "" || sep == "-" {
		return strings.ToUpper(keyword + sep + token)
	}
	return strings.ToUpper(token)
}

func extractName(transcript string) string {
	for _, segment := range sentenceRe.Split(transcript, -1) {
		if s := strings.TrimSpace(segment); s != "" {
			return common.Truncate(s, maxNameLength)
		}
	}
	return ""
}

func extractPrice(text string) float64 {
	m := priceBeforeRe.FindStringSubmatch(text)
	if m == nil {
		m = priceAfterRe.FindStringSubmatch(text)
	}
	if m == nil {
		return 0
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return price
}

func extractStock(text string) int {
	m := stockRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	stock, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return stock
}

func extractCategory(text string) string {
	for _, cat := range Categories {
		if strings.Contains(text, cat) {
			return common.Capitalize(cat)
		}
	}
	return ""
}
