package display

import (
	"fmt"
	"strings"
)

// RenderBoard prints the server's ASCII board with colored pieces:
// white pieces blue, black pieces red, coordinates cyan. Cells are
// two-letter piece codes ("wk", "bh") or ".." when empty.
func RenderBoard(asciiBoard string) {
	for _, line := range strings.Split(asciiBoard, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// File header lines hold only letters a-h
		if trimmed[0] >= 'a' && trimmed[0] <= 'h' {
			fmt.Printf("%s%s%s\n", Cyan, line, Reset)
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			fmt.Println(line)
			continue
		}

		// Rank number, eight cells, rank number again
		fmt.Printf("%s%s%s ", Cyan, fields[0], Reset)
		for _, cell := range fields[1 : len(fields)-1] {
			fmt.Printf(" %s", colorCell(cell))
		}
		fmt.Printf("  %s%s%s\n", Cyan, fields[len(fields)-1], Reset)
	}
}

func colorCell(cell string) string {
	switch {
	case strings.HasPrefix(cell, "w"):
		return Blue + cell + Reset
	case strings.HasPrefix(cell, "b"):
		return Red + cell + Reset
	default:
		return cell
	}
}

// ColorForTurn returns a colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}

// ColorForOutcome returns a colored outcome string
func ColorForOutcome(outcome string) string {
	switch outcome {
	case "white_won":
		return Blue + "White won" + Reset
	case "black_won":
		return Red + "Black won" + Reset
	case "tie":
		return Yellow + "Tie" + Reset
	default:
		return outcome
	}
}
