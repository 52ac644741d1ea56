/*
Package config describes a single find-and-replace run and loads optional job
files that supply its settings.

	            +-------------+
	            |   Config    |
	            |  (one run)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   HCL    | |   YAML   | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Holds the input path, output path, search and replacement terms and case mode
- Validates that a run is well formed before any file is opened
- Parses job files by extension through a small parser registry

🔄 Flow:
1. The command line builds a Config, optionally seeded from a job file
2. Flags that were set explicitly override job file values
3. Validate rejects missing paths and in-place edits

🔍 Example:

	f, err := config.Load(ctx, "job.hcl")
	if err != nil {
		return err
	}
	var cfg config.Config
	f.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
*/
package config
