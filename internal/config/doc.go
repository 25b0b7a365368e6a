// Package config loads the admin-shell configuration.
//
// The YAML file is read first, with ${VAR} references expanded from the
// environment. A fixed set of ADMIN_SHELL_* variables is then overlaid, so the
// two startup flags (ADMIN_SHELL_SHOW_TUTORIALS, ADMIN_SHELL_PROJECT_TYPE) and
// the usual deployment knobs can be set without a file.
package config
