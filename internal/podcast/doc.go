// Package podcast models episodes and renders the RSS 2.0 document that
// podcast clients subscribe to, including the iTunes extension elements.
package podcast
