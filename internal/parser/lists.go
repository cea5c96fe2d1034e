package parser

// Ordered accumulation helpers shared by the grammar productions.

func startList[T any](v T) []T {
	return []T{v}
}

func appendList[T any](list []T, v T) []T {
	return append(list, v)
}

func extendList[T any](list []T, tail []T) []T {
	return append(list, tail...)
}
