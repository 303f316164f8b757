package walker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebuild/internal/adapters/manifest"
	"go.trai.ch/rebuild/internal/adapters/telemetry"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports/mocks"
	"go.trai.ch/rebuild/internal/engine/walker"
	"go.uber.org/mock/gomock"
)

// writeModule creates a module directory with the given package.json content.
// An empty manifest leaves package.json out.
func writeModule(t *testing.T, dir, pkg string, native bool) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	if pkg != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ManifestFileName), []byte(pkg), domain.FilePerm))
	}
	if native {
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.BuildDescriptorFileName), []byte("{}"), domain.FilePerm))
	}
	return dir
}

func tempRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return root
}

func newWalker(t *testing.T) *walker.Walker {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return walker.New(manifest.NewReader(), log, telemetry.NewNoOpTracer())
}

func names(mods []domain.Module) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Name)
	}
	return out
}

func TestWalk_Classification(t *testing.T) {
	root := tempRoot(t)
	nm := filepath.Join(root, "node_modules")

	writeModule(t, root, `{
		"name": "app",
		"dependencies": {"prod-native": "1", "shared": "1"},
		"optionalDependencies": {"opt-native": "1", "not-installed": "1"},
		"devDependencies": {"dev-native": "1", "shared": "1"}
	}`, false)
	writeModule(t, filepath.Join(nm, "prod-native"), `{"name": "prod-native"}`, true)
	writeModule(t, filepath.Join(nm, "opt-native"), `{"name": "opt-native", "dependencies": {"deep-native": "1"}}`, true)
	writeModule(t, filepath.Join(nm, "deep-native"), `{"name": "deep-native"}`, true)
	writeModule(t, filepath.Join(nm, "dev-native"), `{"name": "dev-native", "devDependencies": {"devdev-native": "1"}}`, true)
	writeModule(t, filepath.Join(nm, "devdev-native"), `{"name": "devdev-native"}`, true)
	writeModule(t, filepath.Join(nm, "shared"), `{"name": "shared"}`, true)
	writeModule(t, filepath.Join(nm, "stray-native"), `{"name": "stray-native"}`, true)

	w := newWalker(t)

	t.Run("default types", func(t *testing.T) {
		mods, err := w.Walk(context.Background(), &domain.RebuildConfig{BuildPath: root})
		require.NoError(t, err)

		got := map[string]domain.DependencyType{}
		for _, m := range mods {
			got[m.Name] = m.Type
		}
		assert.Equal(t, map[string]domain.DependencyType{
			"prod-native": domain.DepProd,
			"opt-native":  domain.DepOptional,
			// Reached through an optional edge, so narrowed to optional.
			"deep-native": domain.DepOptional,
			// Both a prod and a dev dependency: the most permissive wins.
			"shared": domain.DepProd,
		}, got)
	})

	t.Run("dev only", func(t *testing.T) {
		mods, err := w.Walk(context.Background(), &domain.RebuildConfig{
			BuildPath: root,
			Types:     []domain.DependencyType{domain.DepDev},
		})
		require.NoError(t, err)
		// Development dependencies of dependencies are not followed.
		assert.ElementsMatch(t, []string{"dev-native"}, names(mods))
	})

	t.Run("extra admits unclassified modules", func(t *testing.T) {
		mods, err := w.Walk(context.Background(), &domain.RebuildConfig{
			BuildPath:    root,
			Types:        []domain.DependencyType{domain.DepProd},
			ExtraModules: []string{"stray-native", "devdev-native"},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"prod-native", "shared", "stray-native", "devdev-native"}, names(mods))
	})

	t.Run("only and ignore", func(t *testing.T) {
		mods, err := w.Walk(context.Background(), &domain.RebuildConfig{
			BuildPath:     root,
			OnlyModules:   []string{"prod-native", "shared", "dev-native"},
			IgnoreModules: []string{"shared"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"prod-native"}, names(mods))
	})

	t.Run("empty only list admits nothing", func(t *testing.T) {
		mods, err := w.Walk(context.Background(), &domain.RebuildConfig{
			BuildPath:   root,
			OnlyModules: []string{},
		})
		require.NoError(t, err)
		assert.Empty(t, mods)
	})
}

func TestWalk_ModuleWithoutDescriptorNeverIncluded(t *testing.T) {
	root := tempRoot(t)
	nm := filepath.Join(root, "node_modules")
	writeModule(t, root, `{"name": "app", "dependencies": {"pure-js": "1"}}`, false)
	writeModule(t, filepath.Join(nm, "pure-js"), `{"name": "pure-js"}`, false)

	mods, err := newWalker(t).Walk(context.Background(), &domain.RebuildConfig{
		BuildPath:    root,
		Types:        []domain.DependencyType{domain.DepProd, domain.DepDev, domain.DepOptional},
		OnlyModules:  []string{"pure-js"},
		ExtraModules: []string{"pure-js"},
	})

	require.NoError(t, err)
	assert.Empty(t, mods)
}

func TestWalk_DeduplicatesByResolvedPath(t *testing.T) {
	root := tempRoot(t)
	nm := filepath.Join(root, "node_modules")
	writeModule(t, root, `{"name": "app", "dependencies": {"a": "1", "native": "1"}}`, false)
	writeModule(t, filepath.Join(nm, "a"), `{"name": "a", "dependencies": {"native": "1"}}`, false)
	writeModule(t, filepath.Join(nm, "native"), `{"name": "native"}`, true)

	// The nested copy is a link to the hoisted one, so it is the same module.
	nested := filepath.Join(nm, "a", "node_modules")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))
	if err := os.Symlink(filepath.Join(nm, "native"), filepath.Join(nested, "native")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	mods, err := newWalker(t).Walk(context.Background(), &domain.RebuildConfig{BuildPath: root})

	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, filepath.Join(nm, "native"), mods[0].Path)
	assert.Equal(t, domain.DepProd, mods[0].Type)
}

func TestWalk_NestedAndScopedModules(t *testing.T) {
	root := tempRoot(t)
	nm := filepath.Join(root, "node_modules")
	writeModule(t, root, `{"name": "app", "dependencies": {"@scope/addon": "1", "host": "1"}}`, false)
	writeModule(t, filepath.Join(nm, "@scope", "addon"), `{"name": "@scope/addon"}`, true)
	writeModule(t, filepath.Join(nm, "host"), `{"name": "host", "dependencies": {"inner": "2"}}`, false)
	writeModule(t, filepath.Join(nm, "host", "node_modules", "inner"), `{"name": "inner"}`, true)
	writeModule(t, filepath.Join(nm, ".cache", "junk"), `{"name": "junk"}`, true)

	mods, err := newWalker(t).Walk(context.Background(), &domain.RebuildConfig{BuildPath: root})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"@scope/addon", "inner"}, names(mods))
}

func TestWalk_SelfBuildComesLast(t *testing.T) {
	root := tempRoot(t)
	writeModule(t, root, `{"name": "my-addon", "dependencies": {"dep": "1"}}`, true)
	writeModule(t, filepath.Join(root, "node_modules", "dep"), `{"name": "dep"}`, true)

	mods, err := newWalker(t).Walk(context.Background(), &domain.RebuildConfig{
		BuildPath:     root,
		IgnoreModules: []string{"my-addon"},
	})

	require.NoError(t, err)
	require.Equal(t, []string{"dep", "my-addon"}, names(mods))
	assert.Equal(t, root, mods[1].Path)
}

func TestWalk_WorkspaceRoots(t *testing.T) {
	project := tempRoot(t)
	app := filepath.Join(project, "packages", "app")
	writeModule(t, project, `{"name": "monorepo"}`, false)
	writeModule(t, app, `{"name": "app", "dependencies": {"hoisted-native": "1", "local-native": "1"}}`, false)
	writeModule(t, filepath.Join(project, "node_modules", "hoisted-native"), `{"name": "hoisted-native"}`, true)
	writeModule(t, filepath.Join(app, "node_modules", "local-native"), `{"name": "local-native"}`, true)

	w := newWalker(t)

	mods, err := w.Walk(context.Background(), &domain.RebuildConfig{BuildPath: app, ProjectRootPath: project})
	require.NoError(t, err)
	assert.Equal(t, []string{"local-native", "hoisted-native"}, names(mods))

	mods, err = w.Walk(context.Background(), &domain.RebuildConfig{BuildPath: app})
	require.NoError(t, err)
	assert.Equal(t, []string{"local-native"}, names(mods), "without a project root only the build root is searched")
}

func TestWalk_MalformedManifestIsSkipped(t *testing.T) {
	root := tempRoot(t)
	nm := filepath.Join(root, "node_modules")
	writeModule(t, root, `{"name": "app", "dependencies": {"broken": "1", "good": "1"}}`, false)
	writeModule(t, filepath.Join(nm, "broken"), `{not json`, true)
	writeModule(t, filepath.Join(nm, "good"), `{"name": "good"}`, true)

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	w := walker.New(manifest.NewReader(), log, telemetry.NewNoOpTracer())

	mods, err := w.Walk(context.Background(), &domain.RebuildConfig{BuildPath: root})

	require.NoError(t, err)
	// broken is still classified through the root manifest edge; only its own
	// dependencies are lost.
	assert.ElementsMatch(t, []string{"broken", "good"}, names(mods))
}

func TestWalk_RelativeBuildPath(t *testing.T) {
	_, err := newWalker(t).Walk(context.Background(), &domain.RebuildConfig{BuildPath: "relative/path"})

	require.ErrorIs(t, err, domain.ErrConfig)
	require.ErrorContains(t, err, domain.ErrBuildPathNotAbsolute.Error())
}
