package loader

import (
	"context"
	"fmt"
	"log/slog"

	"AlignmentScorer/internal/annotation"
	"AlignmentScorer/internal/config"
	"AlignmentScorer/internal/domain"
	"AlignmentScorer/internal/ports"
)

// FileSource implements InputSource over files named in configuration,
// parsing annotations via registered format strategies.
type FileSource struct {
	registry *annotation.Registry
	inputs   config.InputsConfig
	logger   *slog.Logger
}

var (
	_ ports.InputSource = (*FileSource)(nil)
	_ ports.InputLister = (*FileSource)(nil)
)

// NewFileSource wires the format registry with config-defined inputs.
func NewFileSource(reg *annotation.Registry, inputs config.InputsConfig, log *slog.Logger) *FileSource {
	return &FileSource{
		registry: reg,
		inputs:   inputs,
		logger:   log,
	}
}

// DefaultRegistry registers every built-in annotation format.
func DefaultRegistry() *annotation.Registry {
	reg := annotation.NewRegistry()
	reg.Register(NewGAFParser())
	reg.Register(NewTableParser())
	return reg
}

// Load reads the alignment and both species' tables.
func (s *FileSource) Load(ctx context.Context) (domain.Inputs, error) {
	if s.registry == nil {
		return domain.Inputs{}, fmt.Errorf("annotation registry is not configured")
	}

	var in domain.Inputs

	pairs, err := LoadAlignment(s.inputs.Alignment)
	if err != nil {
		return in, fmt.Errorf("load alignment: %w", err)
	}
	in.Pairs = pairs
	s.debug("alignment loaded", "path", s.inputs.Alignment, "pairs", len(pairs))

	species := []struct {
		cfg        config.SpeciesConfig
		mapping    *domain.MappingTable
		annotation *domain.AnnotationTable
	}{
		{s.inputs.Species1, &in.Mapping1, &in.Annotation1},
		{s.inputs.Species2, &in.Mapping2, &in.Annotation2},
	}
	for _, sp := range species {
		if err := ctx.Err(); err != nil {
			return in, err
		}
		mapping, err := s.loadMapping(sp.cfg)
		if err != nil {
			return in, fmt.Errorf("species %s: %w", sp.cfg.Name, err)
		}
		table, err := s.loadAnnotations(ctx, sp.cfg)
		if err != nil {
			return in, fmt.Errorf("species %s: %w", sp.cfg.Name, err)
		}
		*sp.mapping = mapping
		*sp.annotation = table
	}

	return in, nil
}

// InputPaths lists every concrete file Load would read.
func (s *FileSource) InputPaths() ([]string, error) {
	paths := []string{s.inputs.Alignment}
	for _, sp := range []config.SpeciesConfig{s.inputs.Species1, s.inputs.Species2} {
		paths = append(paths, sp.Mapping.Path)
		files, err := ExpandPaths(sp.Annotation.Paths)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	return paths, nil
}

func (s *FileSource) loadMapping(cfg config.SpeciesConfig) (domain.MappingTable, error) {
	table, stats, err := LoadMapping(cfg.Mapping.Path, MappingSpec{
		From:      cfg.Mapping.From,
		To:        cfg.Mapping.To,
		Delimiter: cfg.Mapping.Delimiter,
		NoHeader:  cfg.Mapping.NoHeader,
	})
	if err != nil {
		return table, fmt.Errorf("load mapping: %w", err)
	}
	s.info("mapping loaded",
		"species", cfg.Name,
		"path", cfg.Mapping.Path,
		"rows", stats.Rows,
		"mapped", stats.Mapped,
		"sparse", stats.Sparse,
		"conflicts", stats.Conflicts)
	return table, nil
}

func (s *FileSource) loadAnnotations(ctx context.Context, cfg config.SpeciesConfig) (domain.AnnotationTable, error) {
	parser, err := s.registry.Resolve(cfg.Annotation.Format)
	if err != nil {
		return domain.AnnotationTable{}, err
	}
	files, err := ExpandPaths(cfg.Annotation.Paths)
	if err != nil {
		return domain.AnnotationTable{}, err
	}

	builder := annotation.NewBuilder()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return domain.AnnotationTable{}, err
		}
		records, err := parseFile(parser, path, cfg.Annotation.Options)
		if err != nil {
			return domain.AnnotationTable{}, fmt.Errorf("load annotations: %w", err)
		}
		s.debug("annotation file parsed", "species", cfg.Name, "path", path, "records", len(records))
		builder.Add(records)
	}

	table := builder.Table()
	s.info("annotations loaded",
		"species", cfg.Name,
		"format", parser.Name(),
		"files", len(files),
		"rows", builder.Rows(),
		"proteins", table.Len(),
		"terms", table.Universe().Len())
	return table, nil
}

func parseFile(parser annotation.Parser, path string, options map[string]string) ([]annotation.Record, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.Parse(annotation.Request{Path: path, Options: options}, f)
}

func (s *FileSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *FileSource) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
