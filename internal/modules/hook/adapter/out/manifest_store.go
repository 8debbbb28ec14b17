package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tempo/internal/modules/hook/domain"
	hookout "tempo/internal/modules/hook/port/out"
)

// YAMLManifestStore reads hook manifests from hooks.yaml inside the hooks
// directory. Relative binary paths resolve against that directory.
type YAMLManifestStore struct {
	basePath string
	path     string
}

func NewYAMLManifestStore(hooksDir string) hookout.ManifestStore {
	return &YAMLManifestStore{basePath: hooksDir, path: filepath.Join(hooksDir, "hooks.yaml")}
}

func (s *YAMLManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read hook manifest store: %w", err)
	}
	var manifests []domain.Manifest
	if err := yaml.Unmarshal(raw, &manifests); err != nil {
		return nil, fmt.Errorf("decode hook manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.basePath, manifests[i].Binary))
		}
	}
	return manifests, nil
}
