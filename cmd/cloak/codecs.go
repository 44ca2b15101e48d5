package main

import (
	"github.com/zoobzio/cloak"
	"github.com/zoobzio/cloak/bson"
	"github.com/zoobzio/cloak/msgpack"
	"github.com/zoobzio/cloak/xml"
	"github.com/zoobzio/cloak/yaml"
)

// codecs returns every body codec shipped with the module.
func codecs() []cloak.Codec {
	return []cloak.Codec{yaml.New(), xml.New(), msgpack.New(), bson.New()}
}
