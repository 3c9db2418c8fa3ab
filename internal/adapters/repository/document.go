package repository

import (
	"encoding/xml"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/lden/internal/domain/model"
)

// projectDoc is the on-disk shape of a project, shared by both codecs.
type projectDoc struct {
	XMLName      xml.Name         `xml:"Project" yaml:"-"`
	Name         string           `xml:"name,attr" yaml:"name"`
	Computations []computationDoc `xml:"Computation" yaml:"computations"`
}

type computationDoc struct {
	ID        string        `xml:"id,attr,omitempty" yaml:"id,omitempty"`
	Name      string        `xml:"name,attr" yaml:"name"`
	UseLw     *bool         `xml:"useLw,attr,omitempty" yaml:"use_lw,omitempty"`
	Sources   []elementDoc  `xml:"Source" yaml:"sources"`
	Receivers []elementDoc  `xml:"Receiver" yaml:"receivers"`
	Spectra   []spectrumDoc `xml:"Spectrum" yaml:"spectra,omitempty"`
	Totals    []totalDoc    `xml:"Total" yaml:"totals,omitempty"`
}

type elementDoc struct {
	ID   string `xml:"id,attr,omitempty" yaml:"id,omitempty"`
	Name string `xml:"name,attr" yaml:"name"`
}

// bandsDoc carries spectrum values: XML as space separated character data,
// YAML as a flow sequence.
type bandsDoc struct {
	Text   string    `xml:",chardata" yaml:"-"`
	Values []float64 `xml:"-" yaml:"values,flow"`
}

type spectrumDoc struct {
	Source   string `xml:"source,attr" yaml:"source"`
	Receiver string `xml:"receiver,attr" yaml:"receiver"`
	bandsDoc `yaml:",inline"`
}

type totalDoc struct {
	Receiver string `xml:"receiver,attr" yaml:"receiver"`
	bandsDoc `yaml:",inline"`
}

func newBandsDoc(s model.Spectrum) (bandsDoc, error) {
	text, err := s.MarshalText()
	if err != nil {
		return bandsDoc{}, err
	}
	return bandsDoc{Text: string(text), Values: s.Values()}, nil
}

func (b bandsDoc) spectrum() (model.Spectrum, error) {
	if b.Values != nil {
		return model.NewSpectrum(b.Values)
	}
	var s model.Spectrum
	err := s.UnmarshalText([]byte(b.Text))
	return s, err
}

// documentOf flattens p. Spectra are written receiver by receiver in
// registration order, so the output is deterministic.
func documentOf(p *model.Project) (*projectDoc, error) {
	doc := &projectDoc{Name: p.Name, Computations: make([]computationDoc, 0, len(p.Computations))}
	for _, c := range p.Computations {
		if c == nil || c.Result == nil {
			return nil, fmt.Errorf("%w: computation without result", ErrSave)
		}
		useLw := c.Result.UseLw()
		cd := computationDoc{ID: c.ID.String(), Name: c.Name, UseLw: &useLw}
		sources := c.Result.Sources()
		receivers := c.Result.Receivers()
		for _, s := range sources {
			cd.Sources = append(cd.Sources, elementDoc{ID: s.ID.String(), Name: s.Name})
		}
		for _, r := range receivers {
			cd.Receivers = append(cd.Receivers, elementDoc{ID: r.ID.String(), Name: r.Name})
		}
		for _, r := range receivers {
			for _, s := range sources {
				sp, ok := c.Result.Spectrum(r.Name, s.Name)
				if !ok {
					continue
				}
				bands, err := newBandsDoc(sp)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", ErrSave, err)
				}
				cd.Spectra = append(cd.Spectra, spectrumDoc{Source: s.Name, Receiver: r.Name, bandsDoc: bands})
			}
			if total, ok := c.Result.Total(r.Name); ok {
				bands, err := newBandsDoc(total)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", ErrSave, err)
				}
				cd.Totals = append(cd.Totals, totalDoc{Receiver: r.Name, bandsDoc: bands})
			}
		}
		doc.Computations = append(doc.Computations, cd)
	}
	return doc, nil
}

// project rebuilds the domain model. Missing ids are generated.
func (d *projectDoc) project() (*model.Project, error) {
	p := &model.Project{Name: d.Name}
	for i := range d.Computations {
		c, err := d.Computations[i].computation()
		if err != nil {
			return nil, err
		}
		p.Computations = append(p.Computations, c)
	}
	return p, nil
}

func (cd *computationDoc) computation() (*model.Computation, error) {
	id, err := parseID(cd.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: computation %q: %w", ErrBadProject, cd.Name, err)
	}
	res := model.NewResult()
	for _, e := range cd.Sources {
		el, err := e.element()
		if err != nil {
			return nil, fmt.Errorf("%w: computation %q: %w", ErrBadProject, cd.Name, err)
		}
		if err := res.AddSource(el); err != nil {
			return nil, fmt.Errorf("%w: computation %q: %w", ErrBadProject, cd.Name, err)
		}
	}
	for _, e := range cd.Receivers {
		el, err := e.element()
		if err != nil {
			return nil, fmt.Errorf("%w: computation %q: %w", ErrBadProject, cd.Name, err)
		}
		if err := res.AddReceiver(el); err != nil {
			return nil, fmt.Errorf("%w: computation %q: %w", ErrBadProject, cd.Name, err)
		}
	}
	res.BuildMatrix()

	for _, sd := range cd.Spectra {
		s, err := sd.spectrum()
		if err != nil {
			return nil, fmt.Errorf("%w: computation %q, %s -> %s: %w", ErrBadSpectrum, cd.Name, sd.Source, sd.Receiver, err)
		}
		if err := res.SetSpectrum(sd.Receiver, sd.Source, s); err != nil {
			return nil, fmt.Errorf("%w: computation %q: %w", ErrBadProject, cd.Name, err)
		}
	}
	for _, td := range cd.Totals {
		s, err := td.spectrum()
		if err != nil {
			return nil, fmt.Errorf("%w: computation %q, total at %s: %w", ErrBadSpectrum, cd.Name, td.Receiver, err)
		}
		if err := res.SetTotal(td.Receiver, s); err != nil {
			return nil, fmt.Errorf("%w: computation %q: %w", ErrBadProject, cd.Name, err)
		}
	}
	if cd.UseLw != nil && !*cd.UseLw {
		res.DisableLw()
	}
	return &model.Computation{ID: id, Name: cd.Name, Result: res}, nil
}

func (e elementDoc) element() (model.Element, error) {
	id, err := parseID(e.ID)
	if err != nil {
		return model.Element{}, fmt.Errorf("element %q: %w", e.Name, err)
	}
	return model.Element{ID: id, Name: e.Name}, nil
}

func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(s)
}
