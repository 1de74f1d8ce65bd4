package config

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

const tuningItem = "netsync-tuning"

var gdataManager *gdata.Manager

// InitPersistence opens the per-user data directory used for saved tuning.
func InitPersistence(appName string) error {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return fmt.Errorf("open persistence: %w", err)
	}
	gdataManager = m
	return nil
}

// LoadTuning applies saved tuning on top of Net. A missing file is not an error.
func LoadTuning() error {
	if gdataManager == nil {
		return nil
	}

	data, err := gdataManager.LoadItem(tuningItem)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	if data == nil {
		return nil
	}

	merged, err := ApplyTuning(Net, data)
	if err != nil {
		return err
	}
	Net = merged
	log.Println("[config] loaded saved netsync tuning")
	return nil
}

// SaveTuning writes the current tuning.
func SaveTuning() error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(Net)
	if err != nil {
		return fmt.Errorf("encode tuning: %w", err)
	}
	if err := gdataManager.SaveItem(tuningItem, data); err != nil {
		return fmt.Errorf("save tuning: %w", err)
	}
	return nil
}

// ApplyTuning overlays the JSON in data onto base. Fields absent from data
// keep their base value. The result must form a valid engine config,
// otherwise base is returned with the error.
func ApplyTuning(base NetConfig, data []byte) (NetConfig, error) {
	merged := base
	if err := json.Unmarshal(data, &merged); err != nil {
		return base, fmt.Errorf("parse tuning: %w", err)
	}
	if err := merged.EngineConfig().Validate(); err != nil {
		return base, fmt.Errorf("saved tuning rejected: %w", err)
	}
	return merged, nil
}
