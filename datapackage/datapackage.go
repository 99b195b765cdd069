// Package datapackage builds the aggregate data package: one concatenated
// TSV plus schema per (subcorpus, table kind), and the datapackage.json
// manifest that lists them.
package datapackage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/model"
	"github.com/jhentschel/anntab/schema"
	"github.com/jhentschel/anntab/tabular"
)

// Meta is the package-level metadata carried into the manifest.
type Meta struct {
	Name         string
	Title        string
	Licenses     []schema.License
	Contributors []schema.Contributor
}

// prefixFields lead every concatenated table so rows stay attributable to
// their piece.
func prefixFields() []schema.Field {
	required := &schema.Constraints{Required: true}
	return []schema.Field{
		{Name: "corpus", Type: schema.TypeString, Constraints: required,
			Description: "Name of the subcorpus the row comes from."},
		{Name: "fname", Type: schema.TypeString, Constraints: required,
			Description: "Piece prefix the row comes from."},
	}
}

// Build writes the concatenated tables and datapackage.json into outDir.
// Headers of a kind must agree across a subcorpus; a deviating piece stops
// the build, since silently dropping rows would corrupt the package.
func Build(c *model.Corpus, outDir string, meta Meta) (*schema.Package, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	pkg := &schema.Package{
		Name:         meta.Name,
		Title:        meta.Title,
		Licenses:     meta.Licenses,
		Contributors: meta.Contributors,
	}

	for _, sub := range c.Subcorpora {
		for _, kind := range constants.TableKinds {
			res, err := concatKind(sub, kind, outDir)
			if err != nil {
				return nil, err
			}
			if res != nil {
				pkg.Resources = append(pkg.Resources, res)
			}
		}
	}
	if len(pkg.Resources) == 0 {
		return nil, fmt.Errorf("nothing to package: no tables found")
	}

	if err := pkg.WriteFile(filepath.Join(outDir, constants.DatapackageFile)); err != nil {
		return nil, err
	}
	return pkg, nil
}

func concatKind(sub *model.Subcorpus, kind, outDir string) (*schema.Resource, error) {
	var pieces []*model.Piece
	for _, p := range sub.Pieces {
		if _, ok := p.Tables[kind]; ok {
			pieces = append(pieces, p)
		}
	}
	if len(pieces) == 0 {
		return nil, nil
	}

	descPath, ok := pieces[0].Descriptors[kind]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %s table has no descriptor", sub.Name, pieces[0].Fname, kind)
	}
	ref, err := schema.LoadResource(descPath)
	if err != nil {
		return nil, err
	}

	name := sub.Name + "." + kind
	outPath := filepath.Join(outDir, name+".tsv")
	f, err := os.Create(outPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	outHeader := append([]string{"corpus", "fname"}, ref.FieldNames()...)
	if err := w.Write(outHeader); err != nil {
		return nil, err
	}

	for _, p := range pieces {
		header, rows, err := tabular.ReadRaw(p.Tables[kind])
		if err != nil {
			return nil, err
		}
		if err := ref.CheckHeader(header); err != nil {
			return nil, fmt.Errorf("%s/%s: %s cannot be concatenated: %w", sub.Name, p.Fname, kind, err)
		}
		for _, row := range rows {
			outRow := append([]string{sub.Name, p.Fname}, row...)
			if err := w.Write(outRow); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &schema.Resource{
		Name:    name,
		Path:    name + ".tsv",
		Profile: constants.TabularDataResourceProfile,
		Schema: schema.Schema{
			Fields:        append(prefixFields(), ref.Schema.Fields...),
			MissingValues: ref.Schema.MissingValues,
		},
	}, nil
}
