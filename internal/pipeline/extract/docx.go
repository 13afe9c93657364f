package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/agreemshield/agreemshield/pkg/errors"
)

// extractDOCX reads the main document part of a DOCX archive and flattens
// it to text. Paragraphs become lines; tables are wrapped in
// [TABLE]/[/TABLE] markers with cells joined by " | ".
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to open DOCX archive")
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to open DOCX document part")
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to read DOCX document part")
			}
			break
		}
	}
	if docXML == nil {
		return "", errors.New(errors.ErrCodeExtractionFailed, "DOCX archive has no word/document.xml")
	}

	return flattenDocumentXML(docXML)
}

// flattenDocumentXML walks WordprocessingML tokens. Only a handful of
// elements matter for text recovery: w:p (paragraph), w:t (text run),
// w:tbl (table), w:tr (row), w:tc (cell), w:br and w:tab.
func flattenDocumentXML(docXML []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(docXML))

	var (
		out        strings.Builder
		para       strings.Builder
		tableDepth int
		row        []string
		cell       strings.Builder
		inCell     bool
		inText     bool
	)

	flushPara := func() {
		text := strings.TrimSpace(para.String())
		para.Reset()
		if text == "" {
			return
		}
		if inCell {
			if cell.Len() > 0 {
				cell.WriteByte(' ')
			}
			cell.WriteString(text)
			return
		}
		out.WriteString(text)
		out.WriteString("\n")
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeExtractionFailed, "malformed DOCX XML")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					out.WriteString("[TABLE]\n")
				}
			case "tr":
				row = row[:0]
			case "tc":
				inCell = true
				cell.Reset()
			case "t":
				inText = true
			case "br", "cr":
				para.WriteString("\n")
			case "tab":
				para.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flushPara()
			case "tc":
				flushPara()
				row = append(row, strings.TrimSpace(cell.String()))
				inCell = false
			case "tr":
				if tableDepth == 1 && len(row) > 0 {
					out.WriteString(strings.Join(row, " | "))
					out.WriteString("\n")
				}
			case "tbl":
				tableDepth--
				if tableDepth == 0 {
					out.WriteString("[/TABLE]\n")
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	return out.String(), nil
}
