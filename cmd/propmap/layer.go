package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"propmap/internal/bind"
	"propmap/internal/geom"
	"propmap/internal/propsym"
)

// layer is one loaded and bound input, ready to render.
type layer struct {
	path    string
	coll    geom.Collection
	records []bind.Record
	opts    propsym.Options
}

func loadLayer(path string) (*layer, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	if cfg.Layer.SizeVar == "" || cfg.Layer.ColorVar == "" {
		return nil, eris.Wrap(propsym.ErrConfig, "both --size and --color are required")
	}
	coll, err := geom.Load(path)
	if err != nil {
		return nil, err
	}
	spec := cfg.BindSpec()
	if cfg.Layer.Table != "" {
		if spec.Table, err = bind.LoadTable(cfg.Layer.Table); err != nil {
			return nil, err
		}
	}
	recs, err := bind.Bind(coll, spec)
	if err != nil {
		return nil, err
	}
	zap.L().Info("layer loaded",
		zap.String("path", path),
		zap.Int("features", len(coll.Features)),
		zap.Int("records", len(recs)))
	return &layer{path: path, coll: coll, records: recs, opts: opts}, nil
}
