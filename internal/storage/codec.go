// internal/storage/codec.go
//
// 文字格式的編碼與解碼。任何一行格式錯誤都會立即回傳 *ParseError，不會略過。
package storage

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

const fieldCount = 4

// Decode 逐行解析帳戶紀錄。空白行會被忽略；每行前後空白會先移除。
func Decode(r io.Reader) ([]Record, error) {
	var out []Record
	seen := make(map[string]int)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		rec, err := decodeLine(text)
		if err != nil {
			return nil, &ParseError{Line: line, Reason: err.Error()}
		}
		if prev, dup := seen[rec.ID]; dup {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("duplicate account id %q (first seen on line %d)", rec.ID, prev)}
		}
		seen[rec.ID] = line
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return out, nil
}

func decodeLine(text string) (Record, error) {
	fields := strings.Split(text, ",")
	if len(fields) != fieldCount {
		return Record{}, fmt.Errorf("want %d fields, got %d", fieldCount, len(fields))
	}
	if fields[0] == "" {
		return Record{}, fmt.Errorf("empty account id")
	}
	bal, err := decimal.NewFromString(fields[3])
	if err != nil {
		return Record{}, fmt.Errorf("bad balance %q: %v", fields[3], err)
	}
	if bal.IsNegative() {
		return Record{}, fmt.Errorf("negative balance %s", fields[3])
	}
	return Record{ID: fields[0], Password: fields[1], Kind: fields[2], Balance: bal}, nil
}

// Encode 將紀錄逐行寫出，格式與 Decode 相同。
// 欄位含逗號或換行時回傳錯誤，避免寫出無法讀回的檔案。
func Encode(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		for _, f := range []string{rec.ID, rec.Password, rec.Kind} {
			if strings.ContainsAny(f, ",\r\n") {
				return fmt.Errorf("account %q: field %q contains a separator", rec.ID, f)
			}
		}
		if _, err := fmt.Fprintf(bw, "%s,%s,%s,%s\n", rec.ID, rec.Password, rec.Kind, FormatBalance(rec.Balance)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatBalance 輸出最短的十進位表示；整數一律帶 ".0"（例如 700.0、123.45）。
func FormatBalance(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(1)
	}
	return d.String()
}
