package config

const (
	// Configuration file paths
	ConfigPathItems    = "configs/items.json"
	ConfigPathActions  = "configs/actions.json"
	ConfigPathMonsters = "configs/monsters.json"
)
