// Package copier copies active roster rows from the intake sheet into the
// working roster, applying the transform declared for each mapped field.
//
// Copy is best effort per cell: a value that cannot be converted leaves its
// destination cell untouched and the run continues. Only destination write
// errors abort. Running the engine twice against the same destination leaves
// it unchanged, including formula augmentation.
package copier
