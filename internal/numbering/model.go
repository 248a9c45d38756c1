// Package numbering issues official letter numbers. A number is unique per
// (tier, month, year) scope and strictly increasing within it; once issued
// it is never reused, even if the letter record is later abandoned.
package numbering

import (
	"fmt"
	"strconv"
	"strings"

	"tatausaha/internal/core/entity"
)

// Code describes one entry of the letter code catalog.
type Code struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Codes is the letter code catalog, in display order.
var Codes = []Code{
	{"A.1", "A.1 - Laporan Bulanan"},
	{"A.2", "A.2 - Laporan Kegiatan Sekolah"},
	{"B", "B - Surat Keterangan"},
	{"C", "C - Surat Pemberitahuan"},
	{"D", "D - Surat Pindah"},
	{"E", "E - Surat Keputusan"},
	{"F", "F - Surat Permohonan"},
	{"G", "G - Surat Izin"},
	{"H", "H - Surat Kesepakatan Kerja (MOU)"},
	{"I", "I - Surat Tugas"},
	{"J", "J - Surat Penghargaan"},
	{"K", "K - Surat Undangan"},
	{"L", "L - Surat Peringatan"},
	{"M", "M - Laporan Pertanggung Jawaban"},
	{"N", "N - Legalisir"},
	{"O", "O - Pernyataan"},
	{"P", "P - Surat Pengantar PKL"},
	{"Q", "Q - Surat Penjemputan PKL"},
	{"R", "R - Surat Penerimaan Pegawai Baru"},
	{"T", "T - Transkrip Nilai"},
}

// ValidCode reports whether value is in the catalog.
func ValidCode(value string) bool {
	for _, c := range Codes {
		if c.Value == value {
			return true
		}
	}
	return false
}

// romanMonths maps month number 1..12 to its roman numeral.
var romanMonths = [13]string{
	"", "I", "II", "III", "IV", "V", "VI",
	"VII", "VIII", "IX", "X", "XI", "XII",
}

// RomanMonth returns the roman numeral for a month, or "" when out of range.
func RomanMonth(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return romanMonths[month]
}

// Scope identifies one independent sequence. Letter code is deliberately
// not part of the scope: all codes of a tier share one counter.
type Scope struct {
	Level entity.Level
	Month int
	Year  int
}

// Matches reports whether the letter falls into the scope.
func (s Scope) Matches(l entity.Letter) bool {
	return l.Level == s.Level && l.Month == s.Month && l.Year == s.Year
}

// FormatParts renders a letter number from its parts. SubIndex 0 means a
// single letter; positive values append the batch sub-number.
//
//	003/I.PB.1/K/III/2025
//	012.3/SPB.1/A.1/XII/2025
func FormatParts(code string, level entity.Level, month, year, sequence, subIndex int) string {
	seq := fmt.Sprintf("%03d", sequence)
	if subIndex > 0 {
		seq = fmt.Sprintf("%s.%d", seq, subIndex)
	}
	return fmt.Sprintf("%s/%s.1/%s/%s/%d", seq, level.Display(), code, RomanMonth(month), year)
}

// Format renders the letter's full number from its stored fields.
func Format(l entity.Letter) string {
	return FormatParts(l.Code, l.Level, l.Month, l.Year, l.Sequence, l.SubIndex)
}

// ParseSequence extracts the leading sequence from a formatted number,
// ignoring any batch sub-number. Returns 0 when the string is not a
// well-formed number.
func ParseSequence(formatted string) int {
	head, _, _ := strings.Cut(formatted, "/")
	head, _, _ = strings.Cut(head, ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}
