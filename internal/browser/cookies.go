package browser

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/playwright-community/playwright-go"
)

// Cookie is one browser cookie as exported to a JSON file
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// LoadCookies reads an exported cookie jar, e.g. to get past the aggregator's bot wall
func LoadCookies(path string) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read cookies %s", path)
	}
	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, errors.Wrapf(err, "parse cookies %s", path)
	}
	out := make([]playwright.OptionalCookie, len(cookies))
	for i, c := range cookies {
		out[i] = c.ToPlaywright()
	}
	return out, nil
}

func (c Cookie) ToPlaywright() playwright.OptionalCookie {
	oc := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(c.Path),
	}
	if c.Path == "" {
		oc.Path = playwright.String("/")
	}
	if c.Expires > 0 {
		oc.Expires = playwright.Float(c.Expires)
	}
	if c.HTTPOnly {
		oc.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		oc.Secure = playwright.Bool(true)
	}
	switch c.SameSite {
	case "Lax":
		oc.SameSite = playwright.SameSiteAttributeLax
	case "Strict":
		oc.SameSite = playwright.SameSiteAttributeStrict
	case "None":
		oc.SameSite = playwright.SameSiteAttributeNone
	}
	return oc
}
