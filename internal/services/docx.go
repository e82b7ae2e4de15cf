package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxBodyPart = "word/document.xml"
	wordprocNS   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

var errNoDocxBody = errors.New("missing " + docxBodyPart)

// readDocxXML pulls paragraph text out of the main document part. Only <w:t>
// runs are kept; tabs and breaks become whitespace.
func readDocxXML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", errNoDocxBody
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	var (
		text   strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordprocNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				text.WriteString("\t")
			case "br", "cr":
				text.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Space != wordprocNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}
	return text.String(), nil
}
