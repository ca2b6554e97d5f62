// Package config loads searchkit configuration from the process environment
// and from the per-core YAML file.
//
// Environment values are parsed into tagged structs with
// github.com/caarlos0/env/v11; LoadEnv optionally merges one or more .env
// files first using github.com/joho/godotenv. Core connection options live in
// a YAML document:
//
//	cores:
//	  products:
//	    driver: opensearch
//	    addresses: https://search-1:9200,https://search-2:9200
//	    username: ${OPENSEARCH_USERNAME}
//	    password: ${OPENSEARCH_PASSWORD}
//	  scratch:
//	    driver: bleve
//
// ${VAR} references are expanded from the environment when the file is read.
// Cores satisfies search.ConfigProvider.
package config
