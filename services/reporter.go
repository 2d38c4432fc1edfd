package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"inflation-report/models"
)

const alpha = 0.05

// PrintReport formats and prints the report to w
func PrintReport(w io.Writer, report *models.Report) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("TÜKETİCİ FİYAT ENDEKSİ (TÜFE) RAPORU", 55))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n GENEL BAKIŞ\n%s\n", thin)
	fmt.Fprintf(w, "  Sorgulanan ülke          : %d\n", report.CountriesQueried)
	fmt.Fprintf(w, "  Verisi alınan ülke       : %d\n", report.CountriesFetched)
	fmt.Fprintf(w, "  Atlanan ülke             : %d\n", len(report.Notices))
	fmt.Fprintf(w, "  Toplam satır             : %d\n", report.TotalRows)
	if report.TotalRows > 0 {
		fmt.Fprintf(w, "  Yıl aralığı              : %d - %d\n", report.FirstYear, report.LastYear)
	}

	if report.Focus != nil {
		f := report.Focus
		fmt.Fprintf(w, "\n %s\n%s\n", cases.Upper(language.Turkish).String(models.CountryLabel(report.FocusCountry)), thin)
		fmt.Fprintf(w, "  Ortalama TÜFE            : %.2f\n", f.Mean)
		fmt.Fprintf(w, "  Medyan TÜFE              : %.2f\n", f.Median)
		fmt.Fprintf(w, "  Mod TÜFE                 : %.2f\n", f.Mode)
		fmt.Fprintf(w, "  Standart sapma           : %s\n", formatFloat(f.StdDev))
		fmt.Fprintf(w, "  En düşük / en yüksek     : %.2f / %.2f\n", f.Min, f.Max)
		fmt.Fprintf(w, "  Diğer ülkeler ortalaması : %.2f\n", report.WorldMean)
	}

	if len(report.ByCountry) > 0 {
		ranked := make([]models.CountryStats, len(report.ByCountry))
		copy(ranked, report.ByCountry)
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Median > ranked[j].Median })

		n := 5
		if len(ranked) < n {
			n = len(ranked)
		}
		fmt.Fprintf(w, "\n MEDYAN TÜFE'Sİ EN YÜKSEK %d ÜLKE\n%s\n", n, thin)
		for i, cs := range ranked[:n] {
			fmt.Fprintf(w, "  %d. %-5s %10.2f%s\n", i+1, cs.Country, cs.Median, marker(cs.Country, report.FocusCountry))
		}
		fmt.Fprintf(w, "\n MEDYAN TÜFE'Sİ EN DÜŞÜK %d ÜLKE\n%s\n", n, thin)
		for i := 0; i < n; i++ {
			cs := ranked[len(ranked)-1-i]
			fmt.Fprintf(w, "  %d. %-5s %10.2f%s\n", i+1, cs.Country, cs.Median, marker(cs.Country, report.FocusCountry))
		}
	}

	fmt.Fprintf(w, "\n İSTATİSTİKSEL TESTLER\n%s\n", thin)
	if t := report.TTest; t != nil {
		fmt.Fprintf(w, "  Welch t-testi            : t = %.4f, sd = %.2f, p = %.4g\n", t.T, t.DF, t.PValue)
		fmt.Fprintf(w, "    %s\n", interpret(t.PValue,
			"Ortalamalar arasındaki fark anlamlıdır",
			"Ortalamalar arasında anlamlı fark yoktur"))
	}
	if c := report.ChiSquare; c != nil {
		fmt.Fprintf(w, "  Ki-kare bağımsızlık testi: χ² = %.4f, sd = %d, p = %.4g\n", c.Statistic, c.DF, c.PValue)
		fmt.Fprintf(w, "    %s\n", interpret(c.PValue,
			"Yıl ile ülke grubu bağımlıdır",
			"Yıl ile ülke grubu bağımsızdır"))
	}
	for _, e := range report.TestErrors {
		fmt.Fprintf(w, "  Test yapılamadı: %s\n", e)
	}

	if len(report.ChartFiles) > 0 {
		fmt.Fprintf(w, "\n GRAFİKLER\n%s\n", thin)
		for _, f := range report.ChartFiles {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func interpret(p float64, reject, keep string) string {
	if p < alpha {
		return fmt.Sprintf("p < %.2f: %s.", alpha, reject)
	}
	return fmt.Sprintf("p ≥ %.2f: %s.", alpha, keep)
}

func marker(country, focus string) string {
	if country == focus {
		return "  ◀"
	}
	return ""
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}
