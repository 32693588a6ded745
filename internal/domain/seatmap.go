package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatMap is the static cabin layout of an aircraft model. It is shared
// read-only by every flight operated with that model.
type SeatMap struct {
	Rows         int              `json:"rows"`
	Letters      []string         `json:"letters"`
	AisleAfter   []string         `json:"aisleAfter"`
	RowPrices    map[string]int64 `json:"rowPrices,omitempty"`
	LetterPrices map[string]int64 `json:"prices,omitempty"`
}

// ParseSeat splits a seat label such as "12C" into its row and letter.
func ParseSeat(seat string) (int, string, error) {
	i := 0
	for i < len(seat) && seat[i] >= '0' && seat[i] <= '9' {
		i++
	}
	if i == 0 || i == len(seat) {
		return 0, "", fmt.Errorf("malformed seat %q", seat)
	}
	row, err := strconv.Atoi(seat[:i])
	if err != nil || row <= 0 {
		return 0, "", fmt.Errorf("malformed seat %q", seat)
	}
	return row, seat[i:], nil
}

func SeatLabel(row int, letter string) string {
	return strconv.Itoa(row) + letter
}

func (m SeatMap) Validate() error {
	if m.Rows <= 0 {
		return ValidationError{Field: "rows", Msg: "must be positive"}
	}
	if len(m.Letters) == 0 {
		return ValidationError{Field: "letters", Msg: "must not be empty"}
	}
	seen := make(map[string]struct{}, len(m.Letters))
	for _, l := range m.Letters {
		if l == "" || strings.ContainsAny(l, "0123456789") {
			return ValidationError{Field: "letters", Msg: fmt.Sprintf("bad letter %q", l)}
		}
		if _, dup := seen[l]; dup {
			return ValidationError{Field: "letters", Msg: fmt.Sprintf("duplicate letter %q", l)}
		}
		seen[l] = struct{}{}
	}
	return nil
}

// LetterIndex is the position of letter in the layout, or -1.
func (m SeatMap) LetterIndex(letter string) int {
	for i, l := range m.Letters {
		if l == letter {
			return i
		}
	}
	return -1
}

func (m SeatMap) Contains(seat string) bool {
	row, letter, err := ParseSeat(seat)
	if err != nil {
		return false
	}
	return row <= m.Rows && m.LetterIndex(letter) >= 0
}

// Seats lists every seat row by row, letters in layout order.
func (m SeatMap) Seats() []string {
	seats := make([]string, 0, m.Rows*len(m.Letters))
	for r := 1; r <= m.Rows; r++ {
		for _, l := range m.Letters {
			seats = append(seats, SeatLabel(r, l))
		}
	}
	return seats
}

// SeatPrice is the row add-on plus the letter add-on. Unknown seats cost 0.
func (m SeatMap) SeatPrice(seat string) int64 {
	row, letter, err := ParseSeat(seat)
	if err != nil {
		return 0
	}
	return m.RowPrices[strconv.Itoa(row)] + m.LetterPrices[letter]
}

func (m SeatMap) HasAisleAfter(letter string) bool {
	for _, l := range m.AisleAfter {
		if l == letter {
			return true
		}
	}
	return false
}

// Cabin lays the seats out row by row the way the map is drawn: an empty
// cell marks the aisle behind a letter listed in AisleAfter.
func (m SeatMap) Cabin() [][]string {
	cabin := make([][]string, 0, m.Rows)
	for r := 1; r <= m.Rows; r++ {
		row := make([]string, 0, len(m.Letters)+len(m.AisleAfter))
		for i, l := range m.Letters {
			row = append(row, SeatLabel(r, l))
			if i < len(m.Letters)-1 && m.HasAisleAfter(l) {
				row = append(row, "")
			}
		}
		cabin = append(cabin, row)
	}
	return cabin
}
