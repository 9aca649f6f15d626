package mcpserver

// PostFormatContract describes how garden posts are written and how the
// parser and renderer interpret them.
const PostFormatContract = `# Garden Post Format

Posts are Markdown files exported from a Bear-style note app. Everything
below is optional; a bare Markdown file is a valid post.

## Front matter

` + "```" + `markdown
---
title: Human-readable title
date: 2024-03-09
tags: [area/sub, journal]
---
` + "```" + `

1. The block must start on the first line and is closed by a line holding ` + "`---`" + `.
2. Only ` + "`title`" + `, ` + "`date`" + ` and a bracketed ` + "`tags`" + ` list are read for posts.
   One pair of surrounding quotes is stripped from each value.
3. Without a title, a leading ` + "`# Heading`" + ` line becomes the title and is removed
   from the body; otherwise the file name (without ` + "`.md`" + `) is used.
4. Without a date, the manifest's creation date is used, then today.

## Tags

- Inline hashtags such as ` + "`#area/sub-topic`" + ` are lowercased, added to the tags and
  removed from the body. Tags without a list and without hashtags default to ` + "`notes`" + `.
- Slashes nest tags: ` + "`area/sub`" + ` appears under ` + "`area`" + ` in the tag tree. Counts are
  per exact tag, so ` + "`area`" + ` only counts posts tagged ` + "`area`" + ` itself.

## Body

- Headings ` + "`#`" + ` to ` + "`###`" + `, ` + "`**bold**`" + `, ` + "`*italic*`" + `, ` + "`~~strike~~`" + `, links, blockquotes,
  fenced and inline code, ` + "`---`" + ` rules, bullet, numbered and ` + "`- [x]`" + ` task lists.
- Raw HTML is escaped, except ` + "`<iframe>`" + ` embeds which pass through untouched.
- Relative image paths resolve under ` + "`/posts/`" + ` with each path segment
  percent-encoded: ` + "`![Photo](My Photo.png)`" + ` becomes ` + "`/posts/My%20Photo.png`" + `.
  Absolute paths, ` + "`http(s)://`" + ` and ` + "`data:`" + ` URLs are left alone.

## Example

` + "```" + `markdown
---
title: Bike ride notes
date: 2024-05-01
tags: [outdoors/cycling]
---
Rode the river loop. ![Bridge](rides/bridge 2.jpg) #journal

- [x] pump tyres
- [ ] fix bell
` + "```" + `
`
