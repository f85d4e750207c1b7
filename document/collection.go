package document

// Collection is an ordered set of documents keyed by path. Adding a document
// whose path already exists replaces it in place, keeping its position.
type Collection struct {
	docs   []*Document
	byPath map[string]int
}

func NewCollection(docs ...*Document) *Collection {
	c := &Collection{byPath: make(map[string]int)}
	for _, d := range docs {
		c.Add(d)
	}
	return c
}

func (c *Collection) Add(doc *Document) {
	doc.Path = CleanPath(doc.Path)
	if doc.Metadata == nil {
		doc.Metadata = make(Metadata)
	}
	if i, ok := c.byPath[doc.Path]; ok {
		c.docs[i] = doc
		return
	}
	c.byPath[doc.Path] = len(c.docs)
	c.docs = append(c.docs, doc)
}

func (c *Collection) Get(p string) (*Document, bool) {
	i, ok := c.byPath[CleanPath(p)]
	if !ok {
		return nil, false
	}
	return c.docs[i], true
}

func (c *Collection) Remove(p string) bool {
	p = CleanPath(p)
	i, ok := c.byPath[p]
	if !ok {
		return false
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	delete(c.byPath, p)
	for j := i; j < len(c.docs); j++ {
		c.byPath[c.docs[j].Path] = j
	}
	return true
}

// All returns the documents in insertion order. The slice is a copy; the
// documents are shared.
func (c *Collection) All() []*Document {
	return append([]*Document(nil), c.docs...)
}

// InDir returns the documents whose directory is exactly dir.
func (c *Collection) InDir(dir string) []*Document {
	dir = CleanPath(dir)
	var out []*Document
	for _, d := range c.docs {
		if d.Dir() == dir {
			out = append(out, d)
		}
	}
	return out
}

func (c *Collection) Len() int {
	return len(c.docs)
}
