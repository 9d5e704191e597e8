package importer

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/llehouerou/calliope/internal/logging"
)

const (
	plsSection    = "playlist"
	xspfNamespace = "http://xspf.org/ns/0/"
	jspfRoot      = "playlist"
)

// GuessFormat classifies text as one of the importable dialects. Candidates
// are tried from least to most ambiguous syntax: INI, XML, then YAML (a JSON
// superset). A syntax error in one candidate only rules that candidate out.
func GuessFormat(text []byte) (Format, bool) {
	logging.Debug("guess format: checking INI-style format (pls)")
	if ok, err := isPLS(text); err != nil {
		logging.Debug("guess format: %v", err)
	} else if ok {
		return FormatPLS, true
	}

	logging.Debug("guess format: checking XML format (xspf)")
	if ok, err := isXSPF(text); err != nil {
		logging.Debug("guess format: %v", err)
	} else if ok {
		return FormatXSPF, true
	}

	logging.Debug("guess format: checking YAML / JSON format (jspf)")
	if ok, err := isJSPF(text); err != nil {
		logging.Debug("guess format: %v", err)
	} else if ok {
		return FormatJSPF, true
	}

	return FormatUnknown, false
}

func loadINI(text []byte) (*ini.File, error) {
	return ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		InsensitiveKeys:     true,
	}, text)
}

func isPLS(text []byte) (bool, error) {
	f, err := loadINI(text)
	if err != nil {
		return false, err
	}
	_, err = f.GetSection(plsSection)
	return err == nil, nil
}

// isXSPF reads the whole document so that only well-formed XML matches.
func isXSPF(text []byte) (bool, error) {
	dec := xml.NewDecoder(bytes.NewReader(text))
	var root *xml.Name
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return false, err
		}
		if se, ok := tok.(xml.StartElement); ok && root == nil {
			name := se.Name
			root = &name
		}
	}
	if root == nil {
		return false, errors.New("no root element")
	}
	return root.Space == xspfNamespace && root.Local == "playlist", nil
}

func isJSPF(text []byte) (bool, error) {
	var doc any
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return false, err
	}
	m, ok := doc.(map[string]any)
	if !ok || len(m) == 0 {
		logging.Debug("guess format: YAML/JSON parsed but the document is empty or not a mapping")
		return false, nil
	}
	_, ok = m[jspfRoot]
	return ok, nil
}
