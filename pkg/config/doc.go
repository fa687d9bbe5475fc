/*
Package config manages the fixer settings: where to look for the
php-cs-fixer binary and its config file, which inline rules to fall back
on, and the boolean switches that become command line flags.

	            +-------------+
	            |  Settings   |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |  JSON   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🔄 Flow:
 1. Discover walks from the working directory up to the root looking for
    .phpcsfixer.{yaml,yml,json,hcl}
 2. The parser registered for the extension decodes it on top of Default()
 3. Validate normalizes the comma-separated candidate lists

🔍 Example:

	cfg, path, err := config.Discover(ctx, wd)
	if err != nil {
		return err
	}
	if path == "" {
		// running on defaults
	}
	fmt.Println(cfg.ConfigCandidates())
*/
package config
