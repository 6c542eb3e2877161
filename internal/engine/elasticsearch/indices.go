package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/plazakit/searchsvc/pkg/errors"
)

// indexSpec pairs an index name with its settings and mappings.
type indexSpec struct {
	name     string
	settings string
	mappings string
}

// specs returns every index this engine maintains, keyed by its admin
// target name.
func (e *Engine) specs() map[string]indexSpec {
	return map[string]indexSpec{
		"products":      {e.indices.Products, productSettings, productMappings},
		"brands":        {e.indices.Brands, brandSettings, brandMappings},
		"stocks":        {e.indices.Stocks, stockSettings, stockMappings},
		"popular_terms": {e.indices.PopularTerms, termSettings, termMappings},
		"boosted_terms": {e.indices.BoostedTerms, termSettings, termMappings},
	}
}

func indexBody(spec indexSpec) string {
	return fmt.Sprintf(`{"settings":%s,"mappings":%s}`, spec.settings, spec.mappings)
}

// EnsureIndexes creates any missing index with its mapping and registers
// the stored update scripts. Intended to run once at startup.
func (e *Engine) EnsureIndexes(ctx context.Context) error {
	for target, spec := range e.specs() {
		exists, err := e.indexExists(ctx, spec.name)
		if err != nil {
			return fmt.Errorf("ensure index %s: %w", target, err)
		}
		if exists {
			continue
		}
		if err := e.createIndex(ctx, spec); err != nil {
			return fmt.Errorf("ensure index %s: %w", target, err)
		}
		e.logger.Info("index created", slog.String("index", spec.name))
	}

	return e.ensureScripts(ctx)
}

// ensureScripts registers the stored update scripts with the cluster.
// Registration is idempotent: putting an existing id overwrites it.
func (e *Engine) ensureScripts(ctx context.Context) error {
	for id, source := range storedScripts {
		body := M{"script": M{"lang": "painless", "source": strings.TrimSpace(source)}}
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal script %s: %w", id, err)
		}

		res, err := e.client.PutScript(id, strings.NewReader(string(data)), e.client.PutScript.WithContext(ctx))
		if err != nil {
			return apperrors.BadGateway("search engine unreachable", err)
		}
		if res.IsError() {
			err := e.classifyError("register script "+id, res)
			_ = res.Body.Close()
			return err
		}
		_ = res.Body.Close()
	}
	return nil
}

func (e *Engine) indexExists(ctx context.Context, name string) (bool, error) {
	res, err := e.client.Indices.Exists([]string{name}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()
	return res.StatusCode == 200, nil
}

func (e *Engine) createIndex(ctx context.Context, spec indexSpec) error {
	res, err := e.client.Indices.Create(
		spec.name,
		e.client.Indices.Create.WithBody(strings.NewReader(indexBody(spec))),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.classifyError("create index", res)
	}
	return nil
}

func (e *Engine) deleteIndex(ctx context.Context, name string) error {
	res, err := e.client.Indices.Delete([]string{name}, e.client.Indices.Delete.WithContext(ctx))
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	// 404 means the index was already absent.
	if res.IsError() && res.StatusCode != 404 {
		return e.classifyError("delete index", res)
	}
	return nil
}

func (e *Engine) closeIndex(ctx context.Context, name string) error {
	res, err := e.client.Indices.Close([]string{name}, e.client.Indices.Close.WithContext(ctx))
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.classifyError("close index", res)
	}
	return nil
}

func (e *Engine) openIndex(ctx context.Context, name string) error {
	res, err := e.client.Indices.Open([]string{name}, e.client.Indices.Open.WithContext(ctx))
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.classifyError("open index", res)
	}
	return nil
}

func (e *Engine) putSettings(ctx context.Context, name, settings string) error {
	res, err := e.client.Indices.PutSettings(
		strings.NewReader(settings),
		e.client.Indices.PutSettings.WithIndex(name),
		e.client.Indices.PutSettings.WithContext(ctx),
	)
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.classifyError("put settings", res)
	}
	return nil
}

func (e *Engine) putMapping(ctx context.Context, name, mappings string) error {
	res, err := e.client.Indices.PutMapping(
		[]string{name},
		strings.NewReader(mappings),
		e.client.Indices.PutMapping.WithContext(ctx),
	)
	if err != nil {
		return apperrors.BadGateway("search engine unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.classifyError("put mapping", res)
	}
	return nil
}

// ConfigureIndex reapplies settings and mapping to the named index target.
// With destroy set, the index is deleted and recreated (all documents are
// lost). Otherwise the index is closed for the settings update and then
// reopened; the reopen runs even when the update fails mid-way so a failed
// configuration never leaves the index closed.
func (e *Engine) ConfigureIndex(ctx context.Context, target string, destroy bool) (err error) {
	spec, ok := e.specs()[target]
	if !ok {
		return apperrors.InvalidInput(fmt.Sprintf("unknown index target: %s", target))
	}

	if destroy {
		if err := e.deleteIndex(ctx, spec.name); err != nil {
			return fmt.Errorf("configure index %s: %w", target, err)
		}
		if err := e.createIndex(ctx, spec); err != nil {
			return fmt.Errorf("configure index %s: %w", target, err)
		}
		e.logger.Info("index recreated", slog.String("index", spec.name))
		return nil
	}

	if err := e.closeIndex(ctx, spec.name); err != nil {
		return fmt.Errorf("configure index %s: %w", target, err)
	}
	defer func() {
		if openErr := e.openIndex(ctx, spec.name); openErr != nil {
			e.logger.Error("reopen index after configure failed",
				slog.String("index", spec.name),
				slog.String("error", openErr.Error()),
			)
			if err == nil {
				err = fmt.Errorf("configure index %s: %w", target, openErr)
			}
		}
	}()

	if err := e.putSettings(ctx, spec.name, spec.settings); err != nil {
		return fmt.Errorf("configure index %s: %w", target, err)
	}
	if err := e.putMapping(ctx, spec.name, spec.mappings); err != nil {
		return fmt.Errorf("configure index %s: %w", target, err)
	}

	e.logger.Info("index reconfigured", slog.String("index", spec.name))
	return nil
}
