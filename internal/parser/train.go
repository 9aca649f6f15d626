package parser

import "github.com/starford/garden/internal/models"

// ParseThoughtTrain builds a ThoughtTrain from a raw document. Front-matter
// tags come first, followed by body hashtags not already present; hashtags
// are stripped from the body.
func ParseThoughtTrain(doc models.Document, opts ...PostOption) models.ThoughtTrain {
	o := postOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	fm, body := ExtractFrontMatter(doc.Content)

	train := models.ThoughtTrain{
		Title:          fm.String("title"),
		Date:           resolveDate(fm, doc.Created, o.now),
		StartPoint:     fm.String("startPoint"),
		EndPoint:       fm.String("endPoint"),
		Route:          fm.List("route"),
		Takeaways:      fm.String("takeaways"),
		Quote:          fm.String("quote"),
		WhyCared:       fm.String("whyCared"),
		NextRabbitHole: fm.String("nextRabbitHole"),
		Tags:           appendUnique(fm.List("tags"), extractHashtags(body)...),
		Body:           stripHashtags(body),
		Filename:       doc.Filename,
	}
	if train.Title == "" {
		train.Title = titleFromFilename(doc.Filename)
	}
	return train
}

// resolveDate prefers the front-matter date, then the supplied creation date,
// then today.
func resolveDate(fm FrontMatter, created string, now Clock) string {
	if d := fm.String("date"); d != "" {
		return d
	}
	if created != "" {
		return created
	}
	return today(now)
}
