package mram

import "fmt"

// A Storage keeps the words of the memory array.
//
// The storage manages the array in pages. Pages that are never touched by
// Read or Write are not allocated, so a sparse test over the 256K-word
// space does not pay for the whole array. The content survives a device
// power cycle: MRAM is non-volatile.
type Storage struct {
	pageWords uint32
	capacity  uint32
	pages     map[uint32][]uint16
}

// NewStorage creates a storage object with the given capacity in words.
func NewStorage(capacityWords uint32) *Storage {
	return &Storage{
		pageWords: 1024,
		capacity:  capacityWords,
		pages:     make(map[uint32][]uint16),
	}
}

func (s *Storage) pageFor(addr uint32) ([]uint16, uint32, error) {
	if addr >= s.capacity {
		return nil, 0, fmt.Errorf(
			"address 0x%05X beyond storage capacity 0x%05X", addr, s.capacity)
	}

	inPage := addr % s.pageWords
	base := addr - inPage

	page, ok := s.pages[base]
	if !ok {
		page = make([]uint16, s.pageWords)
		s.pages[base] = page
	}

	return page, inPage, nil
}

// Read returns the word at the given address.
func (s *Storage) Read(addr uint32) (uint16, error) {
	page, inPage, err := s.pageFor(addr)
	if err != nil {
		return 0, err
	}

	return page[inPage], nil
}

// Write stores a word at the given address.
func (s *Storage) Write(addr uint32, value uint16) error {
	page, inPage, err := s.pageFor(addr)
	if err != nil {
		return err
	}

	page[inPage] = value

	return nil
}

// Capacity returns the number of words the storage holds.
func (s *Storage) Capacity() uint32 {
	return s.capacity
}
