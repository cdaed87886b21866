// Package config provides the configuration of the pubsub command.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← PUBSUB_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml/.yml or .json
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// # Usage
//
//	cfg, err := config.Load("pubsub.toml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # File Format
//
//	[log]
//	level = "debug"
//	format = "json"
//
//	[publisher]
//	name = "editor"
//	report_unheard = true
//
//	[metrics]
//	enabled = true
//	namespace = "pubsub"
//
// Unknown keys are rejected so that typos do not go unnoticed.
package config
