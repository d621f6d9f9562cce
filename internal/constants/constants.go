package constants

const ElectronCharge = 1.602176634e-19                   // C
const FreeSpacePermittivityE0 float64 = 8.8541878188e-12 // [m^-3 kg^{-1} s^4 A^2]
const SpeedOfLight float64 = 299792458.                  // [m s^{-1}]
const PlanckEVs float64 = 4.13566733e-15                 // [eV s]
const ElectronRestEnergyEV float64 = 511.0e3             // [eV]
const BohrRadiusNm float64 = 0.0529                      // [nm]
const BohrRadiusCm float64 = 5.29e-9                     // [cm]
