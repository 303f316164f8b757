package domain_test

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebuild/internal/core/domain"
)

func TestDependencyType_Narrow(t *testing.T) {
	tests := []struct {
		parent, edge, want domain.DependencyType
	}{
		{domain.DepProd, domain.DepProd, domain.DepProd},
		{domain.DepProd, domain.DepOptional, domain.DepOptional},
		{domain.DepOptional, domain.DepProd, domain.DepOptional},
		{domain.DepDev, domain.DepProd, domain.DepDev},
		{domain.DepOptional, domain.DepDev, domain.DepDev},
	}

	for _, tt := range tests {
		t.Run(string(tt.parent)+"->"+string(tt.edge), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.parent.Narrow(tt.edge))
		})
	}
}

func TestParseDependencyTypes(t *testing.T) {
	t.Run("valid with duplicates", func(t *testing.T) {
		types, err := domain.ParseDependencyTypes([]string{"prod", " dev", "prod"})
		require.NoError(t, err)
		assert.Equal(t, []domain.DependencyType{domain.DepProd, domain.DepDev}, types)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := domain.ParseDependencyTypes([]string{"peer"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConfig))
		assert.ErrorContains(t, err, "invalid dependency type")
	})
}

func TestResolveABI(t *testing.T) {
	abi, err := domain.ResolveABI("22.6.0", "")
	require.NoError(t, err)
	assert.Equal(t, "127", abi)

	abi, err = domain.ResolveABI("22.6.0", "130")
	require.NoError(t, err)
	assert.Equal(t, "130", abi)

	_, err = domain.ResolveABI("22.6.0", "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))

	_, err = domain.ResolveABI("99.0.0", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestRebuildConfig_MetaData(t *testing.T) {
	cfg := domain.RebuildConfig{Arch: "x64", ABI: "123", IgnoreModules: []string{"skip-me"}}
	assert.Equal(t, "x64--123", cfg.MetaData())
	assert.True(t, cfg.IsIgnored("skip-me"))
	assert.False(t, cfg.IsIgnored("other"))
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "addon", domain.ModuleName(filepath.Join("/p", "node_modules", "addon")))
	assert.Equal(t, "@scope/addon", domain.ModuleName(filepath.Join("/p", "node_modules", "@scope", "addon")))
}

func TestBuildError(t *testing.T) {
	err := error(&domain.BuildError{Module: "addon", Path: "/p/addon", ExitCode: 1, Output: []byte("boom")})
	assert.True(t, errors.Is(err, domain.ErrBuildFailed))

	var buildErr *domain.BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, "boom", string(buildErr.Output))
}

func TestManifest_BinaryKeepsOrder(t *testing.T) {
	data := []byte(`{
		"name": "addon",
		"version": "1.2.3",
		"binary": {
			"module_name": "addon",
			"module_path": "./lib/binding/{configuration}/{module_name}",
			"napi_versions": [3, "6", 4],
			"host": "https://example.com"
		}
	}`)

	var m domain.Manifest
	require.NoError(t, json.Unmarshal(data, &m))

	keys := make([]string, 0, len(m.Binary))
	for _, e := range m.Binary {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"module_name", "module_path", "napi_versions", "host"}, keys)

	napi, ok := m.Binary.Lookup(domain.NapiVersionsKey)
	require.True(t, ok)
	assert.Equal(t, []string{"3", "6", "4"}, napi.List)
}

func TestManifest_BinaryAbsent(t *testing.T) {
	var m domain.Manifest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","binary":null}`), &m))
	assert.Empty(t, m.Binary)
}

func TestManifest_BinaryNotObject(t *testing.T) {
	var m domain.Manifest
	require.Error(t, json.Unmarshal([]byte(`{"binary":"nope"}`), &m))
}
