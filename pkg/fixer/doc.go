/*
Package fixer runs php-cs-fixer over a single document.

	+-----------+     +------------+     +-------------+
	| Document  +---->+  Invoker   +---->+   Runner    |
	| (text)    |     | (Format)   |     | php <tool>  |
	+-----------+     +-----+------+     +------+------+
	                        |                   |
	                  +-----+------+     +------+------+
	                  |  resolve   |     |  temp file  |
	                  | tool/config|     | rewritten   |
	                  +------------+     +-------------+

🔄 Flow:
 1. Non-php documents are skipped
 2. The tool is resolved over settings.ToolPath, falling back to the
    bundled binary; the config over settings.Config
 3. The text goes into a fresh temp file which is always removed
 4. php <tool> fix [flags] (--config=<path> | --rules=<rules>) <temp> runs
    in the document's directory
 5. On success the temp file's contents come back; on failure the original
    text does, together with one error notification

🔍 Example:

	inv, err := fixer.New(fixer.Options{
		Settings: fixer.StaticSettings(config.Default()),
		Notifier: logger,
	})
	if err != nil {
		return err
	}

	diags := diag.New(ctx)
	res := inv.Format(ctx, fixer.Document{Path: path, LanguageID: "php", Text: text}, diags)
	diags.Drain(logger)
*/
package fixer
