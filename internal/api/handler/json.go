package handler

import jsoniter "github.com/json-iterator/go"

// json usa a implementação compatível do jsoniter para serializar as respostas
var json = jsoniter.ConfigCompatibleWithStandardLibrary
