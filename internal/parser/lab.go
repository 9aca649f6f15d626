package parser

import "github.com/starford/garden/internal/models"

// ParseLab builds a Lab from a raw document. Tags come only from front
// matter, in their original order and case.
func ParseLab(doc models.Document, opts ...PostOption) models.Lab {
	o := postOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	fm, body := ExtractFrontMatter(doc.Content)

	lab := models.Lab{
		Title:       fm.String("title"),
		Date:        resolveDate(fm, doc.Created, o.now),
		Description: fm.String("description"),
		Thumbnail:   fm.String("thumbnail"),
		URL:         fm.String("url"),
		View:        fm.String("view"),
		Tags:        appendUnique(fm.List("tags")),
		Body:        body,
		Filename:    doc.Filename,
	}
	if lab.Title == "" {
		lab.Title = titleFromFilename(doc.Filename)
	}
	return lab
}
