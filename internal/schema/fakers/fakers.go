// Package fakers produces plausible random-but-valid field values for fixture
// construction. A Faker built with the same seed yields the same sequence.
package fakers

import (
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

const documentHost = "https://storage.finops.test"

// Categories is the set of purchase categories the generator draws from.
var Categories = []string{
	"taxi", "toys", "gas", "supermarket", "pharmacy", "cinema",
	"restaurants", "education", "travel", "electronics",
}

var (
	timestampFrom = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	timestampTo   = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	dateFrom      = time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	dateTo        = time.Date(2032, time.December, 31, 0, 0, 0, 0, time.UTC)
)

var emailDomains = []string{"example.com", "mail.test", "finops.test"}

// Faker is not safe for concurrent use.
type Faker struct {
	gen *gofakeit.Faker
}

// New returns a Faker whose output is fully determined by seed.
func New(seed uint64) *Faker {
	return &Faker{gen: gofakeit.New(seed)}
}

// Random returns a Faker seeded from a random source.
func Random() *Faker {
	return &Faker{gen: gofakeit.New(0)}
}

// UUID returns a random UUID string.
func (f *Faker) UUID() string {
	return f.gen.UUID()
}

// Enum picks one member of values. It returns "" for an empty set.
func (f *Faker) Enum(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return f.gen.RandomString(values)
}

// Amount returns a positive amount with two decimal places in [1.00, 1000.00].
func (f *Faker) Amount() decimal.Decimal {
	return decimal.NewFromFloat(f.gen.Float64Range(1, 1000)).Round(2)
}

// Category returns one of Categories.
func (f *Faker) Category() string {
	return f.gen.RandomString(Categories)
}

// Email returns a lower-case address built from ASCII letters and digits only.
func (f *Faker) Email() string {
	local := asciiLower(f.gen.FirstName()) + "." + asciiLower(f.gen.LastName())
	return local + f.gen.Numerify("##") + "@" + f.gen.RandomString(emailDomains)
}

func (f *Faker) FirstName() string {
	return f.gen.FirstName()
}

func (f *Faker) LastName() string {
	return f.gen.LastName()
}

// MiddleName reuses the first-name corpus.
func (f *Faker) MiddleName() string {
	return f.gen.FirstName()
}

func (f *Faker) Phone() string {
	return "+7" + f.gen.Numerify("##########")
}

// URL returns an https URL on the document storage host.
func (f *Faker) URL() string {
	return documentHost + f.gen.Numerify("/documents/########")
}

// Text returns a short sentence.
func (f *Faker) Text() string {
	return f.gen.Sentence(5)
}

// Digits returns n random decimal digits.
func (f *Faker) Digits(n int) string {
	if n <= 0 {
		return ""
	}
	return f.gen.Numerify(strings.Repeat("#", n))
}

// CardHolder returns an upper-case "FIRST LAST" embossing.
func (f *Faker) CardHolder() string {
	return strings.ToUpper(f.gen.FirstName() + " " + f.gen.LastName())
}

// Date returns a future calendar date formatted as YYYY-MM-DD.
func (f *Faker) Date() string {
	return f.gen.DateRange(dateFrom, dateTo).Format("2006-01-02")
}

// Timestamp returns a UTC timestamp truncated to the second.
func (f *Faker) Timestamp() time.Time {
	return f.gen.DateRange(timestampFrom, timestampTo).UTC().Truncate(time.Second)
}

// Count returns an integer in [min, max].
func (f *Faker) Count(min, max int) int {
	if max <= min {
		return min
	}
	return f.gen.Number(min, max)
}

// ParseDigits extracts N from a "digits=N" generator spec.
func ParseDigits(spec string) (int, bool) {
	n, ok := strings.CutPrefix(spec, "digits=")
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(n)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func asciiLower(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
