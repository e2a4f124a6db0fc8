package docstring

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

var formatters = map[string]func(string) (string, error){
	"json": formatJSON,
	"xml":  formatXML,
	"html": formatHTML,
	"sql":  formatSQL,
	"csv":  formatCSV,
}

// Format reformats content according to contentType. Unknown types and any
// formatting failure return content unchanged.
func Format(contentType, content string) (out string) {
	fn, ok := formatters[strings.ToLower(contentType)]
	if !ok || strings.TrimSpace(content) == "" {
		return content
	}
	defer func() {
		if recover() != nil {
			out = content
		}
	}()
	formatted, err := fn(content)
	if err != nil {
		return content
	}
	return formatted
}

func formatJSON(content string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(content), "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatXML(content string) (string, error) {
	return reindentMarkup(xml.NewDecoder(strings.NewReader(content)))
}

func formatHTML(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	return reindentMarkup(dec)
}

func reindentMarkup(dec *xml.Decoder) (string, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if cd, ok := tok.(xml.CharData); ok {
			if len(bytes.TrimSpace(cd)) == 0 {
				continue
			}
			tok = xml.CharData(bytes.TrimSpace(cd))
		}
		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return "", err
		}
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var sqlClauses = []string{
	"SELECT", "FROM", "WHERE", "GROUP BY", "ORDER BY", "HAVING", "LIMIT",
	"LEFT JOIN", "RIGHT JOIN", "INNER JOIN", "JOIN", "UNION",
	"INSERT INTO", "VALUES", "UPDATE", "SET", "DELETE FROM",
}

// formatSQL collapses whitespace outside string literals and starts each
// major clause on its own line.
func formatSQL(content string) (string, error) {
	var words []string
	var cur strings.Builder
	var quote rune
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range content {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return "", errors.New("unterminated string literal")
	}
	flush()

	var out strings.Builder
	for i := 0; i < len(words); i++ {
		clause, n := matchClause(words[i:])
		if clause != "" {
			if out.Len() > 0 {
				out.WriteString("\n")
			}
			out.WriteString(clause)
			i += n - 1
			continue
		}
		if out.Len() > 0 {
			out.WriteString(" ")
		}
		out.WriteString(words[i])
	}
	return out.String(), nil
}

func matchClause(words []string) (string, int) {
	for _, clause := range sqlClauses {
		parts := strings.Fields(clause)
		if len(parts) > len(words) {
			continue
		}
		matched := true
		for j, p := range parts {
			if !strings.EqualFold(words[j], p) {
				matched = false
				break
			}
		}
		if matched {
			return clause, len(parts)
		}
	}
	return "", 0
}

func formatCSV(content string) (string, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return "", err
	}
	for _, rec := range records {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
