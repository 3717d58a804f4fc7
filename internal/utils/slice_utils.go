// Package utils
package utils

// ReverseForEach 从后往前遍历切片
func ReverseForEach[T any](src []T, callback func(index int, element T)) {
	for i := len(src) - 1; i >= 0; i-- {
		callback(i, src[i])
	}
}
