// Package objects contains the API objects shared by handlers and biz
// services. To avoid circular dependencies, we put them here.
package objects
