package repository

import (
	"encoding/xml"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

type codec interface {
	encode(w io.Writer, doc *projectDoc) error
	decode(r io.Reader) (*projectDoc, error)
}

var codecs = map[string]codec{
	".xml":  xmlCodec{},
	".yaml": yamlCodec{},
	".yml":  yamlCodec{},
}

var errEmptyDocument = errors.New("empty document")

type xmlCodec struct{}

func (xmlCodec) encode(w io.Writer, doc *projectDoc) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (xmlCodec) decode(r io.Reader) (*projectDoc, error) {
	var doc projectDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyDocument
		}
		return nil, err
	}
	return &doc, nil
}

type yamlCodec struct{}

func (yamlCodec) encode(w io.Writer, doc *projectDoc) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlCodec) decode(r io.Reader) (*projectDoc, error) {
	var doc projectDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyDocument
		}
		return nil, err
	}
	return &doc, nil
}
