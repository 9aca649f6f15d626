// Package models defines the domain types for the garden.
package models

import "time"

// Document is a raw markdown file as read from a collection directory.
// Created is the externally supplied creation date (manifest or file system);
// it may be empty.
type Document struct {
	Content  string
	Filename string
	Created  string
}

// DocumentMeta is a lightweight representation returned by list operations.
type DocumentMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Created   time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Post is a parsed garden note.
type Post struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	Body     string   `json:"body"`
	Excerpt  string   `json:"excerpt"`
	Filename string   `json:"filename"`
}

// HasTag reports whether the post carries tag exactly.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ThoughtTrain is a note tracing a line of thought from a start point to an
// end point through an ordered route.
type ThoughtTrain struct {
	Title          string   `json:"title"`
	Date           string   `json:"date"`
	StartPoint     string   `json:"start_point"`
	EndPoint       string   `json:"end_point"`
	Route          []string `json:"route"`
	Takeaways      string   `json:"takeaways"`
	Quote          string   `json:"quote"`
	WhyCared       string   `json:"why_cared"`
	NextRabbitHole string   `json:"next_rabbit_hole"`
	Tags           []string `json:"tags"`
	Body           string   `json:"body"`
	Filename       string   `json:"filename"`
}

// Lab is a showcased project or experiment.
type Lab struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	URL         string   `json:"url"`
	View        string   `json:"view"`
	Tags        []string `json:"tags"`
	Body        string   `json:"body"`
	Filename    string   `json:"filename"`
}
