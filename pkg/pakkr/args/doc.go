// Package args lets a step declare the command-line flags that feed its
// parameters.
//
// An Argument registers one flag on a *pflag.FlagSet. A Spec is the ordered
// list attached to a step; pipelines compose the specs of their steps in
// declaration order, so nested pipelines expose the flags of everything they
// contain. Flag names map to parameter names by replacing dashes with
// underscores ("--config-file" feeds config_file). Meta turns parsed flags
// into the named values a pipeline is called with.
package args
