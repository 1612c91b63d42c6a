package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// ExtractDOCXText 从.docx字节流提取段落文本。
// docx是一个ZIP包，正文在word/document.xml中，
// 逐token遍历w:p段落并收集其中的字符数据。
func ExtractDOCXText(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("打开docx压缩包失败: %w", err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("压缩包中缺少 word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("打开 document.xml 失败: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var out strings.Builder
	var currentText strings.Builder
	inParagraph := false
	inTextRun := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				currentText.Reset()
			case "t":
				inTextRun = inParagraph
			case "tab":
				if inParagraph {
					currentText.WriteByte(' ')
				}
			case "br":
				if inParagraph {
					currentText.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inTextRun {
				currentText.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				if inParagraph {
					inParagraph = false
					text := strings.TrimSpace(currentText.String())
					if text != "" {
						out.WriteString(text)
						out.WriteByte('\n')
					}
				}
			}
		}
	}

	return out.String(), nil
}
