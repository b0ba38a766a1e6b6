// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/bvk/coindash/listview"
	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

// groupDigits inserts thousands separators into the integer part of a
// formatted decimal number.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	var sb strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	if hasFrac {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}
	return sign + sb.String()
}

// formatUSD formats a price in dollars. Prices below a dollar keep their
// full precision.
func formatUSD(d decimal.Decimal) string {
	if d.Abs().LessThan(decimal.NewFromInt(1)) && !d.IsZero() {
		return "$" + d.String()
	}
	return "$" + groupDigits(d.StringFixed(2))
}

func formatUSDOrNA(d decimal.NullDecimal) string {
	if !d.Valid {
		return notAvailable
	}
	return formatUSD(d.Decimal)
}

func formatNumberOrNA(d decimal.NullDecimal) string {
	if !d.Valid {
		return notAvailable
	}
	return groupDigits(d.Decimal.String())
}

func formatPercent(d decimal.NullDecimal) string {
	if !d.Valid {
		return notAvailable
	}
	return d.Decimal.StringFixed(2) + "%"
}

func formatRank(v int) string {
	if v <= 0 {
		return notAvailable
	}
	return strconv.Itoa(v)
}

func changeClass(d decimal.NullDecimal) string {
	switch {
	case !d.Valid:
		return ""
	case d.Decimal.IsNegative():
		return "down"
	default:
		return "up"
	}
}

func sortLabel(m listview.SortMode) string {
	switch m {
	case listview.SortGainers:
		return "Top Gainers"
	case listview.SortLosers:
		return "Top Losers"
	}
	return "Default"
}

func parsePages() (*template.Template, error) {
	funcs := template.FuncMap{
		"upper":       strings.ToUpper,
		"usd":         formatUSD,
		"usdOrNA":     formatUSDOrNA,
		"numOrNA":     formatNumberOrNA,
		"pct":         formatPercent,
		"rank":        formatRank,
		"changeClass": changeClass,
		"sortLabel":   sortLabel,
	}
	return template.New("pages").Funcs(funcs).Parse(pagesText)
}

const pagesText = `
{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; background: #fff; color: #111; }
body.dark { background: #121212; color: #eee; }
body.dark a { color: #8ab4f8; }
nav { display: flex; gap: 1em; align-items: center; margin-bottom: 1em; }
nav form { margin-left: auto; }
table { border-collapse: collapse; width: 100%; }
td, th { padding: 0.4em; border-bottom: 1px solid #8884; text-align: left; }
.up { color: #16a34a; }
.down { color: #dc2626; }
.error { color: #dc2626; }
.message { padding: 0.5em; border: 1px solid #8888; }
.lookbacks a { margin-right: 1em; }
.lookbacks a.active { font-weight: bold; }
.pager { display: flex; gap: 1em; align-items: center; margin-top: 1em; }
</style>
</head>
<body class="{{if .DarkMode}}dark{{end}}">
<nav>
<a href="/">Dashboard</a>
<a href="/watchlist">Watchlist</a>
<form method="post" action="/darkmode/toggle">
<input type="hidden" name="return" value="{{.Path}}">
<button type="submit">{{if .DarkMode}}Light Mode{{else}}Dark Mode{{end}}</button>
</form>
</nav>
{{with .Message}}<p class="message">{{.}}</p>{{end}}
{{end}}

{{define "footer"}}
</body>
</html>
{{end}}

{{define "list"}}{{template "header" .}}
<h1>Cryptocurrency Dashboard</h1>
<form method="get" action="/">
<input type="text" name="search" placeholder="Search by name or symbol" value="{{.State.Filter.Search}}">
<input type="number" name="min" placeholder="Min Market Cap" value="{{.State.Filter.MinMarketCap}}">
<input type="number" name="max" placeholder="Max Market Cap" value="{{.State.Filter.MaxMarketCap}}">
<select name="sort">
{{range .Sorts}}<option value="{{.}}"{{if eq . $.State.Filter.Sort}} selected{{end}}>{{sortLabel .}}</option>
{{end}}</select>
<button type="submit">Apply</button>
</form>
{{if .State.Failed}}
<p class="error">{{.State.Error}} <a href="/?reload=1">Retry</a></p>
{{else if .State.Loading}}
<p class="loading">Loading...</p>
{{else}}
<table>
<tr><th></th><th>Name</th><th>Symbol</th><th>Price</th><th>Market Cap</th><th>24h Change</th><th></th></tr>
{{range .State.Derived}}<tr>
<td>{{with .Image}}<img src="{{.}}" alt="" width="24" height="24">{{end}}</td>
<td><a href="/coin/{{.ID}}">{{.Name}}</a></td>
<td>{{upper .Symbol}}</td>
<td>{{usd .CurrentPrice}}</td>
<td>{{usd .MarketCap}}</td>
<td class="{{changeClass .PriceChangePercentage24h}}">{{pct .PriceChangePercentage24h}}</td>
<td><form method="post" action="/watchlist/add">
<input type="hidden" name="id" value="{{.ID}}">
<input type="hidden" name="return" value="{{$.Path}}">
<button type="submit">Add to Watchlist</button>
</form></td>
</tr>
{{else}}<tr><td colspan="7">No coins match the current filter.</td></tr>
{{end}}</table>
{{end}}
<div class="pager">
<form method="get" action="/"><input type="hidden" name="page" value="{{.State.PrevPageNumber}}"><button type="submit"{{if not .State.HasPrev}} disabled{{end}}>Previous</button></form>
<span>Page {{.State.Page}}</span>
<form method="get" action="/"><input type="hidden" name="page" value="{{.State.NextPageNumber}}"><button type="submit">Next</button></form>
</div>
{{template "footer" .}}{{end}}

{{define "detail"}}{{template "header" .}}
<p><a href="/">&larr; Back</a></p>
{{if .State.Failed}}
<p class="error">{{.State.Error}}</p>
{{else}}
{{with .State.Detail}}
<h1>{{.Name}} ({{upper .Symbol}})</h1>
<p>{{$.Description}}</p>
<p>Market Rank: {{rank .MarketCapRank}}</p>
<p>24h High: {{usd .High24h}}</p>
<p>24h Low: {{usd .Low24h}}</p>
{{end}}
{{if .InWatchlist}}<p>This coin is in your watchlist.</p>
{{else}}<form method="post" action="/watchlist/add">
<input type="hidden" name="id" value="{{.State.ID}}">
<input type="hidden" name="return" value="{{.Path}}">
<button type="submit">Add to Watchlist</button>
</form>
{{end}}
<div class="lookbacks">
{{range .Lookbacks}}<a href="/coin/{{$.State.ID}}?days={{.}}"{{if eq . $.State.Days}} class="active"{{end}}>{{.}} Days</a>
{{end}}</div>
{{if .Points}}
<h2>Price Trend</h2>
<svg viewBox="0 0 800 300" width="800" height="300" role="img" aria-label="{{.State.Chart.Label}}">
<polyline fill="none" stroke="rgb(75, 192, 192)" stroke-width="2" points="{{.Points}}"/>
</svg>
<p>{{.FirstLabel}} &ndash; {{.LastLabel}}</p>
{{else}}
<p>No chart data available.</p>
{{end}}
{{with .State.Detail}}
<p><strong>Total Supply:</strong> {{numOrNA .TotalSupply}}</p>
<p><strong>Circulating Supply:</strong> {{numOrNA .CirculatingSupply}}</p>
<p><strong>Market Cap:</strong> {{usdOrNA .MarketCap}}</p>
{{end}}
{{end}}
{{template "footer" .}}{{end}}

{{define "watchlist"}}{{template "header" .}}
<h1>Your Watchlist</h1>
{{if .State.Empty}}
<p>{{.State.Message}}</p>
{{else}}
<table>
<tr><th></th><th>Name</th><th>Symbol</th><th>Price</th><th>Market Cap</th><th>24h Change</th><th></th></tr>
{{range .State.Coins}}<tr>
<td>{{with .Image}}<img src="{{.}}" alt="" width="24" height="24">{{end}}</td>
<td><a href="/coin/{{.ID}}">{{.Name}}</a></td>
<td>{{upper .Symbol}}</td>
<td>{{usd .CurrentPrice}}</td>
<td>{{usd .MarketCap}}</td>
<td class="{{changeClass .PriceChangePercentage24h}}">{{pct .PriceChangePercentage24h}}</td>
<td><form method="post" action="/watchlist/remove">
<input type="hidden" name="id" value="{{.ID}}">
<input type="hidden" name="return" value="{{$.Path}}">
<button type="submit">Remove</button>
</form></td>
</tr>
{{end}}</table>
{{end}}
{{template "footer" .}}{{end}}
`
