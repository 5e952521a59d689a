// Package pipeline orders generators by their declared dependencies, applies
// the run mode, and drives each generator to its target record count.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/eventhub/datagen/internal/generator"
	"github.com/eventhub/datagen/internal/ident"
	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/producer"
	"github.com/eventhub/datagen/internal/sink"
	"github.com/eventhub/datagen/internal/tracker"
)

type Mode string

const (
	// ModeAppend continues numbering and adds to existing data.
	ModeAppend Mode = "append"
	// ModeRewrite clears each generated entity's sink and regenerates from zero.
	ModeRewrite Mode = "rewrite"
	// ModeReduced runs the same logic against smaller target counts.
	ModeReduced Mode = "reduced"
)

// Options configures a single pipeline run.
type Options struct {
	Mode   Mode
	Skip   []models.EntityType
	Counts map[models.EntityType]int
	Seed   int64
}

// EntityResult is the outcome of one entity's generation step.
type EntityResult struct {
	Entity    models.EntityType
	Requested int
	Appended  int
	Skipped   bool
	Err       error
}

// Summary reports the whole run.
type Summary struct {
	RunID   string
	Mode    Mode
	Results []EntityResult
}

// Appended returns the total number of records accepted across all entities.
func (s *Summary) Appended() int {
	total := 0
	for _, r := range s.Results {
		total += r.Appended
	}
	return total
}

// Pipeline wires the generators to a sink and field producer.
type Pipeline struct {
	sink       sink.Sink
	producer   producer.FieldProducer
	generators []generator.Generator
}

func New(s sink.Sink, p producer.FieldProducer) *Pipeline {
	return &Pipeline{sink: s, producer: p, generators: generator.All()}
}

// Run executes all generators in dependency order. A missing upstream
// collection aborts that entity and every dependent of it; independent
// entities still run. Sink failures abort the whole run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	order, err := p.runOrder()
	if err != nil {
		return nil, err
	}

	skip := make(map[models.EntityType]bool, len(opts.Skip))
	for _, e := range opts.Skip {
		skip[e] = true
	}

	if opts.Mode == ModeRewrite {
		for _, gen := range order {
			if skip[gen.EntityType()] {
				continue
			}
			if err := p.sink.Clear(gen.EntityType()); err != nil {
				return nil, fmt.Errorf("rewrite clear: %w", err)
			}
		}
	}

	alloc, err := ident.NewAllocator(p.sink)
	if err != nil {
		return nil, err
	}
	trk, err := tracker.Rebuild(p.sink, time.Now())
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	summary := &Summary{RunID: uuid.NewString(), Mode: opts.Mode}
	log.Printf("[Pipeline] run %s starting (mode=%s)", summary.RunID, opts.Mode)

	failed := make(map[models.EntityType]bool)
	for _, gen := range order {
		entity := gen.EntityType()
		target := opts.Counts[entity]

		if skip[entity] {
			log.Printf("[Pipeline] skipping %s", entity)
			summary.Results = append(summary.Results, EntityResult{Entity: entity, Skipped: true})
			continue
		}

		if blocked := p.blockedBy(gen, failed); blocked != "" {
			err := fmt.Errorf("%s aborted: upstream %s did not generate", entity, blocked)
			log.Printf("[Pipeline] %v", err)
			summary.Results = append(summary.Results, EntityResult{Entity: entity, Requested: target, Err: err})
			failed[entity] = true
			continue
		}

		upstream, missing, err := p.loadUpstream(gen)
		if err != nil {
			return summary, err
		}
		if missing != "" {
			err := fmt.Errorf("%s aborted: required upstream %s has zero records", entity, missing)
			log.Printf("[Pipeline] %v", err)
			summary.Results = append(summary.Results, EntityResult{Entity: entity, Requested: target, Err: err})
			failed[entity] = true
			continue
		}

		log.Printf("[Pipeline] generating %s (target=%d)", entity, target)
		deps := &generator.Deps{
			Tracker:  trk,
			Alloc:    alloc,
			Sink:     p.sink,
			Producer: p.producer,
			Rand:     rng,
			Upstream: upstream,
		}
		appended, err := gen.GenerateBatch(ctx, target, deps)
		if err != nil {
			return summary, fmt.Errorf("generate %s: %w", entity, err)
		}
		log.Printf("[Pipeline] %s: appended %d/%d", entity, appended, target)
		summary.Results = append(summary.Results, EntityResult{Entity: entity, Requested: target, Appended: appended})
	}

	log.Printf("[Pipeline] run %s finished: %d records appended", summary.RunID, summary.Appended())
	return summary, nil
}

// blockedBy returns the first dependency whose generation step already failed.
func (p *Pipeline) blockedBy(gen generator.Generator, failed map[models.EntityType]bool) models.EntityType {
	for _, dep := range gen.Dependencies() {
		if failed[dep] {
			return dep
		}
	}
	return ""
}

// loadUpstream reads the declared dependency collections from the sink.
// missing names the first required collection with zero records.
func (p *Pipeline) loadUpstream(gen generator.Generator) (generator.Upstream, models.EntityType, error) {
	var up generator.Upstream
	for _, dep := range gen.Dependencies() {
		raws, err := p.sink.ReadAll(dep)
		if err != nil {
			return up, "", fmt.Errorf("load upstream %s: %w", dep, err)
		}
		if len(raws) == 0 {
			return up, dep, nil
		}
		switch dep {
		case models.EntityUsers:
			up.Users, err = sink.DecodeAll[models.User](raws)
		case models.EntityVenues:
			up.Venues, err = sink.DecodeAll[models.Venue](raws)
		case models.EntityEvents:
			up.Events, err = sink.DecodeAll[models.Event](raws)
		case models.EntityReservations:
			up.Reservations, err = sink.DecodeAll[models.Reservation](raws)
		}
		if err != nil {
			return up, "", fmt.Errorf("decode upstream %s: %w", dep, err)
		}
	}
	return up, "", nil
}

// runOrder topologically sorts the generators by their declared dependencies,
// preserving the canonical declaration order among ready entities.
func (p *Pipeline) runOrder() ([]generator.Generator, error) {
	byEntity := make(map[models.EntityType]generator.Generator, len(p.generators))
	for _, gen := range p.generators {
		byEntity[gen.EntityType()] = gen
	}

	var order []generator.Generator
	done := make(map[models.EntityType]bool)
	for len(order) < len(p.generators) {
		progressed := false
		for _, gen := range p.generators {
			entity := gen.EntityType()
			if done[entity] {
				continue
			}
			ready := true
			for _, dep := range gen.Dependencies() {
				if _, known := byEntity[dep]; known && !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				order = append(order, gen)
				done[entity] = true
				progressed = true
			}
		}
		if !progressed {
			return nil, fmt.Errorf("dependency cycle among generators")
		}
	}
	return order, nil
}
