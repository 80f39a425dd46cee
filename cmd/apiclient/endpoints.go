package main

import "github.com/kbukum/apiclient/endpoint"

// endpoints are the requests 'apiclient call' knows by name.
var endpoints = map[string]endpoint.Descriptor{
	"users":        endpoint.Get("/users").Authenticated().Named("users"),
	"user":         endpoint.Get("/users/:id").Authenticated().Named("user"),
	"posts":        endpoint.Get("/posts").Authenticated().Named("posts"),
	"createPost":   endpoint.Post("/posts").Authenticated().Named("createPost"),
	"uploadAvatar": endpoint.Post("/users/:id/avatar").Authenticated().Named("uploadAvatar"),
}

var multipartEndpoints = map[string]bool{"uploadAvatar": true}
