package cooklang_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	cooklang "github.com/goliatone/go-cooklang"
)

func TestConfigValidateStoreRequiresFeature(t *testing.T) {
	cfg := cooklang.DefaultConfig()
	cfg.Features.Store = false

	if err := cfg.Validate(); !errors.Is(err, cooklang.ErrStoreFeatureRequired) {
		t.Fatalf("expected ErrStoreFeatureRequired, got %v", err)
	}
}

func TestConfigValidateWatchRequiresStore(t *testing.T) {
	cfg := cooklang.DefaultConfig()
	cfg.Store.Enabled = false
	cfg.Features.Store = false
	cfg.Features.Watch = true

	if err := cfg.Validate(); !errors.Is(err, cooklang.ErrWatchRequiresStore) {
		t.Fatalf("expected ErrWatchRequiresStore, got %v", err)
	}
}

func TestConfigValidateDatabaseDriverNeedsDSN(t *testing.T) {
	cfg := cooklang.DefaultConfig()
	cfg.Store.Driver = cooklang.DriverSQLite

	if err := cfg.Validate(); !errors.Is(err, cooklang.ErrStoreDSNRequired) {
		t.Fatalf("expected ErrStoreDSNRequired, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := cooklang.DefaultConfig()
	cfg.Render.Format = "pdf"

	_, err := cooklang.New(cfg)
	if !errors.Is(err, cooklang.ErrFieldsInvalid) {
		t.Fatalf("expected ErrFieldsInvalid, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	var ge *goerrors.Error
	if !errors.As(err, &ge) || ge.TextCode != cooklang.TextCodeConfigInvalid {
		t.Fatalf("expected text code %s, got %v", cooklang.TextCodeConfigInvalid, err)
	}
}
