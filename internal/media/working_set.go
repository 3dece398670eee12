package media

import "fmt"

// WorkingSet holds the accepted images of the step, in selection order
type WorkingSet struct {
	rules    Rules
	images   []*Image
	rejected []*FileError
}

// NewWorkingSet creates an empty working set
func NewWorkingSet(rules Rules) *WorkingSet {
	return &WorkingSet{rules: rules}
}

// Add validates files and keeps the ones that pass. Files beyond MaxImages are rejected.
func (w *WorkingSet) Add(files ...File) {
	for _, f := range files {
		img, ferr := w.rules.Validate(f)
		if ferr != nil {
			w.rejected = append(w.rejected, ferr)
			continue
		}
		if len(w.images) >= MaxImages {
			w.rejected = append(w.rejected, &FileError{
				Name:    f.Name,
				Stage:   StageValidation,
				Message: fmt.Sprintf("máximo %d imágenes", MaxImages),
			})
			continue
		}
		w.images = append(w.images, img)
	}
}

// Images returns the accepted images
func (w *WorkingSet) Images() []*Image {
	return w.images
}

// Rejected returns the files that were excluded and why
func (w *WorkingSet) Rejected() []*FileError {
	return w.rejected
}

// Ready reports whether enough images were accepted to upload
func (w *WorkingSet) Ready() error {
	if len(w.images) < MinImages {
		return fmt.Errorf("se requieren mínimo %d imágenes (tienes %d)", MinImages, len(w.images))
	}
	return nil
}
