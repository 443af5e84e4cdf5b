package extract

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/matsen/ash/internal/doi"
)

// ErrInvalidUTF8 is returned when text content is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// RTFHandler extracts DOIs from Rich Text Format content.
type RTFHandler struct {
	// Label is the content type named in failures. Defaults to application/rtf.
	Label string
}

// ExtractDOIs implements Handler.
func (h *RTFHandler) ExtractDOIs(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrap(labelOr(h.Label, TypeRTF), fmt.Errorf("reading: %w", err))
	}
	if !utf8.Valid(data) {
		return nil, wrap(labelOr(h.Label, TypeRTF), ErrInvalidUTF8)
	}
	return doi.Extract(rtfToText(string(data))), nil
}

// rtfDestinations are groups whose content is never document text.
var rtfDestinations = map[string]bool{
	"aftncn": true, "aftnsep": true, "aftnsepc": true, "annotation": true,
	"atnauthor": true, "atndate": true, "atnicn": true, "atnid": true,
	"atnparent": true, "atnref": true, "atntime": true, "atrfend": true,
	"atrfstart": true, "author": true, "background": true, "bkmkend": true,
	"bkmkstart": true, "buptim": true, "category": true, "colortbl": true,
	"comment": true, "company": true, "creatim": true, "datafield": true,
	"datastore": true, "defchp": true, "defpap": true, "do": true,
	"doccomm": true, "docvar": true, "dptxbxtext": true, "falt": true,
	"fchars": true, "ffdeftext": true, "ffentrymcr": true, "ffexitmcr": true,
	"ffformat": true, "ffhelptext": true, "ffl": true, "ffname": true,
	"ffstattext": true, "file": true, "filetbl": true, "fldinst": true,
	"fontemb": true, "fontfile": true, "fonttbl": true, "footer": true,
	"footerf": true, "footerl": true, "footerr": true, "footnote": true,
	"formfield": true, "ftncn": true, "ftnsep": true, "ftnsepc": true,
	"g": true, "generator": true, "gridtbl": true, "header": true,
	"headerf": true, "headerl": true, "headerr": true, "hl": true,
	"hlfr": true, "hlinkbase": true, "hlloc": true, "hlsrc": true,
	"hsv": true, "info": true, "keywords": true, "latentstyles": true,
	"lchars": true, "levelnumbers": true, "leveltext": true, "lfolevel": true,
	"linkval": true, "list": true, "listlevel": true, "listname": true,
	"listoverride": true, "listoverridetable": true, "listpicture": true,
	"liststylename": true, "listtable": true, "listtext": true,
	"lsdlockedexcept": true, "macc": true, "maccPr": true, "mailmerge": true,
	"manager": true, "mhtmltag": true, "nesttableprops": true,
	"nextfile": true, "nonesttables": true, "nonshppict": true,
	"objalias": true, "objclass": true, "objdata": true, "object": true,
	"objname": true, "objsect": true, "objtime": true, "oldcprops": true,
	"oldpprops": true, "oldsprops": true, "oldtprops": true, "operator": true,
	"panose": true, "password": true, "passwordhash": true, "pgp": true,
	"pgptbl": true, "picprop": true, "pict": true, "pn": true,
	"pnseclvl": true, "pntext": true, "pntxta": true, "pntxtb": true,
	"printim": true, "private": true, "propname": true, "protend": true,
	"protstart": true, "protusertbl": true, "pxe": true,
	"revtbl": true, "revtim": true, "rsidtbl": true, "rxe": true,
	"shp": true, "shpgrp": true, "shpinst": true, "shppict": true,
	"shprslt": true, "shptxt": true, "sn": true, "sp": true, "staticval": true,
	"stylesheet": true, "subject": true, "sv": true, "svb": true, "tc": true,
	"template": true, "themedata": true, "title": true, "txe": true,
	"ud": true, "upr": true, "userprops": true, "wgrffmtfilter": true,
	"windowcaption": true, "writereservation": true, "writereservhash": true,
	"xe": true, "xform": true, "xmlattrname": true, "xmlattrvalue": true,
	"xmlclose": true, "xmlname": true, "xmlnstbl": true, "xmlopen": true,
}

// rtfSpecials maps control words to the text they stand for.
var rtfSpecials = map[string]string{
	"par": "\n", "sect": "\n\n", "page": "\n\n", "line": "\n",
	"tab": "\t", "cell": "\t", "row": "\n",
	"emdash": "—", "endash": "–", "emspace": " ",
	"enspace": " ", "qmspace": " ", "bullet": "•",
	"lquote": "‘", "rquote": "’", "ldblquote": "“",
	"rdblquote": "”",
}

type rtfGroup struct {
	ignorable bool
	ucSkip    int
}

// rtfToText strips RTF control syntax and returns the document text.
func rtfToText(src string) string {
	var (
		out   strings.Builder
		stack []rtfGroup
		cur   = rtfGroup{ucSkip: 1}
		skip  int // fallback characters still to drop after \uN
	)

	emit := func(s string) {
		if skip > 0 {
			skip--
			return
		}
		if !cur.ignorable {
			out.WriteString(s)
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch c {
		case '{':
			stack = append(stack, cur)
			skip = 0
			i++
		case '}':
			if len(stack) > 0 {
				cur = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
			skip = 0
			i++
		case '\r', '\n':
			i++
		case '\\':
			i = rtfControl(src, i+1, &cur, &skip, emit)
		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			emit(string(r))
			i += size
		}
	}
	return out.String()
}

// rtfControl handles the control sequence starting at src[i] (just past the
// backslash) and returns the index after it.
func rtfControl(src string, i int, cur *rtfGroup, skip *int, emit func(string)) int {
	if i >= len(src) {
		return i
	}

	c := src[i]
	switch {
	case c == '\\' || c == '{' || c == '}':
		emit(string(c))
		return i + 1
	case c == '\'':
		if i+3 <= len(src) {
			if b, err := strconv.ParseUint(src[i+1:i+3], 16, 8); err == nil {
				emit(string(charmap.Windows1252.DecodeByte(byte(b))))
				return i + 3
			}
		}
		return i + 1
	case c == '*':
		cur.ignorable = true
		return i + 1
	case c == '~':
		emit(" ")
		return i + 1
	case c == '_':
		emit("-")
		return i + 1
	case c == '\r' || c == '\n':
		emit("\n")
		return i + 1
	case !isASCIILetter(c):
		return i + 1
	}

	start := i
	for i < len(src) && isASCIILetter(src[i]) {
		i++
	}
	word := src[start:i]

	paramStart := i
	if i < len(src) && src[i] == '-' {
		i++
	}
	for i < len(src) && src[i] >= '0' && src[i] <= '9' {
		i++
	}
	param := src[paramStart:i]
	if i < len(src) && src[i] == ' ' {
		i++
	}

	switch {
	case rtfDestinations[word]:
		cur.ignorable = true
	case word == "uc":
		if n, err := strconv.Atoi(param); err == nil && n >= 0 {
			cur.ucSkip = n
		}
	case word == "u":
		n, err := strconv.Atoi(param)
		if err != nil {
			break
		}
		if n < 0 {
			n += 0x10000
		}
		*skip = 0
		emit(string(rune(n)))
		*skip = cur.ucSkip
	default:
		if s, ok := rtfSpecials[word]; ok {
			emit(s)
		}
	}
	return i
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
