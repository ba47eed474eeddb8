// Package config provides aliasrun settings.
//
// Settings are layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. ALIASRUN_* Environment  │
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .aliasrun.toml or ~/.config/aliasrun/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Layering is done by viper; this package owns the keys, defaults and
// validation.
package config
