package layout

import "strings"

// WrapWords greedily fills lines with whole words so that width(line) never
// exceeds maxWidth. A "\n" forces a break and an empty paragraph yields an
// empty line. Words wider than maxWidth are split between runes, keeping at
// least one rune per line.
func WrapWords(text string, maxWidth float64, width func(string) float64) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			if width(word) > maxWidth {
				if line != "" {
					lines = append(lines, line)
				}
				chunks := splitWord(word, maxWidth, width)
				lines = append(lines, chunks[:len(chunks)-1]...)
				line = chunks[len(chunks)-1]
				continue
			}

			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if width(candidate) <= maxWidth {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

func splitWord(word string, maxWidth float64, width func(string) float64) []string {
	var chunks []string
	var cur []rune
	for _, r := range word {
		next := append(cur, r)
		if len(cur) > 0 && width(string(next)) > maxWidth {
			chunks = append(chunks, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	if len(cur) > 0 {
		chunks = append(chunks, string(cur))
	}
	return chunks
}
