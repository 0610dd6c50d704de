package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/bobmcallan/rag-mcp/internal/tools"
)

// maxContentRunes is how much of a source excerpt is shown before truncation.
const maxContentRunes = 200

// Response is the rendered result of one tool call: text blocks for the host
// and whether the call failed.
type Response struct {
	Blocks  []string
	IsError bool
}

// Text joins the blocks. Renders always produce a single block; the join
// exists for callers that want one string regardless.
func (r Response) Text() string {
	return strings.Join(r.Blocks, "\n")
}

func textResponse(text string) Response {
	return Response{Blocks: []string{text}}
}

func errorResponse(text string) Response {
	return Response{Blocks: []string{text}, IsError: true}
}

// Render turns an Outcome into the text shown to the host.
func Render(o tools.Outcome) Response {
	if !o.OK {
		return errorResponse(fmt.Sprintf("%s\n\nError details: %s", o.Message, o.Error))
	}

	var lines []string
	if data, ok := o.Data.(map[string]any); ok {
		if answer, ok := data["answer"]; ok {
			lines = append(lines, "Risposta: "+scalarText(answer))
		} else if response, ok := data["response"]; ok {
			lines = append(lines, "Risposta: "+scalarText(response))
		}

		if raw, ok := data["sources"]; ok {
			lines = append(lines, "Documenti sorgente:")
			if sources, ok := raw.([]any); ok {
				for i, src := range sources {
					lines = append(lines, sourceLine(i+1, src))
				}
			} else {
				// A single non-list value is kept as one raw entry.
				lines = append(lines, fmt.Sprintf("  1. %s", scalarText(raw)))
			}
		}

		if len(lines) == 0 && len(data) > 0 {
			lines = append(lines, "Dati RAG: "+prettyJSON(data))
		}
	}
	if o.Query != "" {
		lines = append(lines, "Query: "+o.Query)
	}
	if len(lines) == 0 {
		return textResponse(o.Message)
	}
	return textResponse(strings.Join(lines, "\n"))
}

// sourceLine renders one entry of the sources list.
func sourceLine(i int, src any) string {
	entry, ok := src.(map[string]any)
	if !ok {
		return fmt.Sprintf("  %d. %s", i, scalarText(src))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %d. ", i)
	if doc, ok := entry["document"]; ok {
		b.WriteString("Documento: " + scalarText(doc))
	}
	if score, ok := entry["score"]; ok {
		b.WriteString(" (Score: " + formatScore(score) + ")")
	}
	if content, ok := entry["content"]; ok {
		b.WriteString("\n     Contenuto: " + truncate(scalarText(content), maxContentRunes))
	}
	return b.String()
}

// formatScore renders a numeric score with three decimals, rounding half away
// from zero on the decimal text the API sent (0.8765 -> 0.877). Non-numeric
// scores are shown as-is.
func formatScore(v any) string {
	var literal string
	switch n := v.(type) {
	case json.Number:
		literal = n.String()
	case float64:
		literal = strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		literal = strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		literal = strconv.Itoa(n)
	case int64:
		literal = strconv.FormatInt(n, 10)
	default:
		return scalarText(v)
	}
	r, ok := new(big.Rat).SetString(literal)
	if !ok {
		return literal
	}
	return r.FloatString(3)
}

// truncate cuts s to max runes and marks the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// scalarText renders a decoded JSON value as plain text: strings raw, numbers
// as sent, anything else as compact JSON.
func scalarText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	case fmt.Stringer:
		return x.String()
	}
	out, err := encodeJSON(v, "")
	if err != nil {
		return fmt.Sprint(v)
	}
	return out
}

func prettyJSON(v any) string {
	out, err := encodeJSON(v, "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return out
}

// encodeJSON marshals v without escaping HTML or non-ASCII characters.
func encodeJSON(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
