package mcpserver

// LinkFormatContract describes the link-wizard string format accepted by
// the resolve_link tool and the wizardlink template tag.
const LinkFormatContract = `# Link-Wizard Format

A link-wizard value is one line of space-separated fields. Fields that
contain spaces are wrapped in double quotes. A single dash (-) leaves a
field empty without shifting the fields after it.

    <subject> [target] [class] [title] [extra parameters]

## Subject

Checked in this order, the first match wins:

1. ` + "`file:<uid or identifier>`" + ` links to a stored file, e.g. ` + "`file:7`" + ` or
   ` + "`file:/user_upload/report.pdf`" + `. The link text defaults to the file name.
2. An email address, e.g. ` + "`info@example.org`" + `. The href honours the
   site's spam protection setting.
3. A positive page uid, optionally with a section, e.g. ` + "`12`" + ` or ` + "`12#contact`" + `.
   Pages that are hidden, deleted or hidden for the requested language
   render nothing.
4. Anything else is an external URL. ` + "`http://`" + ` is prepended unless the
   value already starts with ` + "`http://`" + ` or ` + "`https://`" + `.

## Extra parameters

Query-string style, e.g. ` + "`&type=98&print=1`" + `. They are appended to page
URLs in the given order. An ` + "`L`" + ` parameter overrides the request language.

## Examples

    12 _blank - "Read more" &print=1
    file:7 - download
    "https://example.org/a b" _blank
    info@example.org
`
