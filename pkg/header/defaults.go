// SPDX-License-Identifier: MPL-2.0

package header

// DefaultReadmeEntries lists the readme.txt header rules.
func DefaultReadmeEntries() []Entry {
	return []Entry{
		{"Contributors", LevelRequired},
		{"Tags", LevelOptional},
		{"Donate link", LevelOptional},
		{"Tested up to", LevelRequired},
		{"Stable tag", LevelRequired},
		{"License", LevelRequired},
		{"License URI", LevelOptional},

		// Plugin file headers that do not belong in the readme.
		{"Plugin Name", LevelForbidden},
		{"Plugin URI", LevelForbidden},
		{"Description", LevelForbidden},
		{"Version", LevelForbidden},
		{"Author", LevelForbidden},
		{"Author URI", LevelForbidden},
		{"Text Domain", LevelForbidden},
		{"Domain Path", LevelForbidden},
		{"Network", LevelForbidden},
		{"Update URI", LevelForbidden},
		// WordPress and the plugin directory both prefer these in the plugin file.
		{"Requires at least", LevelForbidden},
		{"Requires PHP", LevelForbidden},
		{"Requires Plugins", LevelForbidden},
	}
}

// DefaultPluginEntries lists the main plugin file header rules.
func DefaultPluginEntries() []Entry {
	return []Entry{
		{"Plugin Name", LevelRequired},
		{"Plugin URI", LevelOptional},
		{"Description", LevelRequired},
		{"Version", LevelRequired},
		{"Requires at least", LevelRequired}, // stricter than the plugin header docs
		{"Requires PHP", LevelRequired},      // stricter than the plugin header docs
		{"Author", LevelRequired},
		{"Author URI", LevelOptional},
		{"License", LevelRequired},
		{"License URI", LevelOptional},
		{"Text Domain", LevelOptional},
		{"Domain Path", LevelOptional},
		{"Network", LevelOptional},
		{"Update URI", LevelOptional},
		{"Requires Plugins", LevelOptional},

		// Readme file headers that do not belong in the plugin file.
		{"Contributors", LevelForbidden},
		{"Tags", LevelForbidden},
		{"Donate link", LevelForbidden},
		{"Stable tag", LevelForbidden},
		// Deploy actions demand a version bump whenever the plugin file changes,
		// so the tested-up-to value lives in the readme only.
		{"Tested up to", LevelForbidden},
	}
}

// DefaultAliases lists headers the plugin directory still parses but whose
// documented names have changed.
func DefaultAliases() []Alias {
	return []Alias{
		{Deprecated: "Tested", Replacement: "Tested up to"},
		{Deprecated: "Requires", Replacement: "Requires at least"},
	}
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	readme, err := NewSpec(FileReadme, DefaultReadmeEntries()...)
	if err != nil {
		panic(err)
	}
	plugin, err := NewSpec(FilePlugin, DefaultPluginEntries()...)
	if err != nil {
		panic(err)
	}
	rules, err := NewRules(readme, plugin, DefaultAliases())
	if err != nil {
		panic(err)
	}
	return rules
}
