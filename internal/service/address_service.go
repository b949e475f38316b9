package service

import (
	"regexp"
	"strings"

	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"gorm.io/gorm"
)

var (
	indianPhonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	postalCodePattern  = regexp.MustCompile(`^\d{6}$`)
)

// ValidPhoneNumber 校验印度手机号（10 位，6-9 开头）
func ValidPhoneNumber(phone string) bool {
	return indianPhonePattern.MatchString(strings.TrimSpace(phone))
}

// ValidPostalCode 校验 6 位邮编
func ValidPostalCode(code string) bool {
	return postalCodePattern.MatchString(strings.TrimSpace(code))
}

// AddressInput 地址创建/更新输入
type AddressInput struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	PhoneNumber  string
	IsDefault    bool
}

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建收货地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// List 获取用户地址列表（默认地址在前）
func (s *AddressService) List(userID uint) ([]models.ShippingAddress, error) {
	return s.addressRepo.ListByUser(userID)
}

// Get 获取用户地址，非本人地址与不存在同样处理
func (s *AddressService) Get(userID, addressID uint) (*models.ShippingAddress, error) {
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// Create 新增地址；设为默认时在同一事务中清除其他默认地址
func (s *AddressService) Create(userID uint, input AddressInput) (*models.ShippingAddress, error) {
	normalized, err := normalizeAddressInput(input)
	if err != nil {
		return nil, err
	}
	address := &models.ShippingAddress{UserID: userID}
	applyAddressInput(address, normalized)

	err = s.addressRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.Create(address); err != nil {
			return err
		}
		if address.IsDefault {
			return repo.ClearDefault(userID, address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update 更新地址
func (s *AddressService) Update(userID, addressID uint, input AddressInput) (*models.ShippingAddress, error) {
	normalized, err := normalizeAddressInput(input)
	if err != nil {
		return nil, err
	}
	var address *models.ShippingAddress
	err = s.addressRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		existing, err := repo.GetByIDAndUser(addressID, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrAddressNotFound
		}
		applyAddressInput(existing, normalized)
		if existing.IsDefault {
			if err := repo.ClearDefault(userID, existing.ID); err != nil {
				return err
			}
		}
		if err := repo.Update(existing); err != nil {
			return err
		}
		address = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Delete 删除地址
func (s *AddressService) Delete(userID, addressID uint) error {
	affected, err := s.addressRepo.DeleteByIDAndUser(addressID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// SetDefault 设为默认地址：清除其他默认与标记目标在同一事务内完成
func (s *AddressService) SetDefault(userID, addressID uint) (*models.ShippingAddress, error) {
	var address *models.ShippingAddress
	err := s.addressRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.ClearDefault(userID, addressID); err != nil {
			return err
		}
		affected, err := repo.SetDefault(addressID, userID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAddressNotFound
		}
		address, err = repo.GetByIDAndUser(addressID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func normalizeAddressInput(input AddressInput) (AddressInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.AddressLine1 = strings.TrimSpace(input.AddressLine1)
	input.AddressLine2 = strings.TrimSpace(input.AddressLine2)
	input.City = strings.TrimSpace(input.City)
	input.State = strings.TrimSpace(input.State)
	input.PostalCode = strings.TrimSpace(input.PostalCode)
	input.Country = strings.TrimSpace(input.Country)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if input.Country == "" {
		input.Country = "India"
	}

	verr := &ValidationError{}
	required := map[string]string{
		"name":           input.Name,
		"address_line_1": input.AddressLine1,
		"city":           input.City,
		"state":          input.State,
	}
	for field, value := range required {
		if value == "" {
			verr.Add(field, "error.field_required")
		}
	}
	if !ValidPostalCode(input.PostalCode) {
		verr.Add("postal_code", "error.postal_code_invalid")
	}
	if !ValidPhoneNumber(input.PhoneNumber) {
		verr.Add("phone_number", "error.phone_invalid")
	}
	return input, verr.OrNil()
}

func applyAddressInput(address *models.ShippingAddress, input AddressInput) {
	address.Name = input.Name
	address.AddressLine1 = input.AddressLine1
	address.AddressLine2 = input.AddressLine2
	address.City = input.City
	address.State = input.State
	address.PostalCode = input.PostalCode
	address.Country = input.Country
	address.PhoneNumber = input.PhoneNumber
	address.IsDefault = input.IsDefault
}
