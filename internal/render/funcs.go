// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"database/sql"
	"encoding/json"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ybeyene15/SiteSolveTrade/internal/checkout"
	"github.com/ybeyene15/SiteSolveTrade/internal/model"
)

// TemplateFuncs returns the functions available to every template.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"truncate":  truncate,
		"runeCount": utf8.RuneCountInString,
		"title": func(s string) string {
			if s == "" {
				return s
			}
			first, size := utf8.DecodeRuneInString(s)
			return strings.ToUpper(string(first)) + s[size:]
		},

		// Math
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},

		// Time
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"formatNullDate": func(t sql.NullTime) string {
			if !t.Valid {
				return ""
			}
			return t.Time.Format("Jan 2, 2006")
		},

		// JSON
		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return template.JS(b)
		},

		// Data structures
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},

		// Site
		"icon":        Icon,
		"icons":       func() []model.Icon { return model.Icons },
		"formatPrice": checkout.FormatPrice,
		"formatCents": FormatCents,
		"priceWhole": func(amount float64, iso string) string {
			whole, _ := checkout.PriceParts(amount, iso)
			return whole
		},
		"priceFrac": func(amount float64, iso string) string {
			_, frac := checkout.PriceParts(amount, iso)
			return frac
		},
	}
}

// truncate shortens s to at most length runes, appending "...".
func truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return string(runes[:length]) + "..."
}

// FormatCents renders an amount in minor units, e.g. 49999 usd → "$499.99".
func FormatCents(amount int64, iso string) string {
	return checkout.FormatPrice(float64(amount)/100, iso)
}
