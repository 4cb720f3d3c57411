package config

type StorageConfig struct {
	Local *LocalStorageConfig `yaml:"local"`
}

type LocalStorageConfig struct {
	BasePath string `yaml:"base_path"`
	BaseURL  string `yaml:"base_url"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Local: &LocalStorageConfig{
			BasePath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			BaseURL:  getEnv("STORAGE_LOCAL_URL", "http://localhost:8080/uploads"),
		},
	}
}
