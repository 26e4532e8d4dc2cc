// Package classify implements the supervised classifier: continuous
// features are quantized into a level-vector codebook, each training row
// is encoded into one hypervector by permuting each feature's level vector
// by its column index and bundling the results, each class gets a
// prototype built by bundling its tagged training points, and prediction
// picks the nearest prototype by cosine distance.
//
// MLModel also offers k-fold cross-validated prediction, grid-search
// auto-tuning of (size, levels), and forward/backward stepwise feature
// selection, all built on top of Fit/Predict.
package classify
